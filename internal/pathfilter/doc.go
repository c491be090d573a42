// Package pathfilter decides which uploaded paths belong to the project.
//
// Patterns come from every .gitignore found in an upload batch and are
// applied to the whole batch without directory scoping. Matching follows
// shell fnmatch semantics: "*" and "?" also cross "/" when a pattern is
// compared with the full path, and a pattern may instead match any single
// path segment.
//
// Independent of patterns, paths ending in explainer/app.py are always
// excluded so an accidental upload of the tool itself is never treated
// as project content.
package pathfilter
