package cache

// BoltDB bucket names
const (
	BucketImages  = "images"  // {source URL} -> ImageRecord
	BucketRuns    = "runs"    // {started unix nano}/{run id} -> RunRecord
	BucketUploads = "uploads" // {remote path} -> UploadRecord

	// Global metadata
	BucketMeta = "meta" // schema_version

	KeySchemaVersion = "schema_version"
)

// Store categories
const (
	CategoryImages = "images"
)

// AllBuckets returns all bucket names for initialization
func AllBuckets() []string {
	return []string{
		BucketImages,
		BucketRuns,
		BucketUploads,
		BucketMeta,
	}
}
