package ingest

// MsgNoValidFiles is reported when an upload batch has nothing to store.
const MsgNoValidFiles = "No valid files to upload or trying to upload the explainer project itself"

// IngestionError rejects an upload batch before any storage is touched.
type IngestionError struct {
	Message string
	// Dropped is how many uploads were discarded before rejection.
	Dropped int
}

func (e *IngestionError) Error() string {
	return e.Message
}
