package app

type BuildInfo struct {
	RevisionID string
	Timestamp  string
}

var (
	buildRevisionID = "unknown"
	buildTimestamp  = "unknown"
)

// SetBuildInfo is called from main with values injected by the linker.
func SetBuildInfo(revisionID string, timestamp string) {
	if revisionID != "" {
		buildRevisionID = revisionID
	}
	if timestamp != "" {
		buildTimestamp = timestamp
	}
}

func GetBuildInfo() BuildInfo {
	return BuildInfo{
		RevisionID: buildRevisionID,
		Timestamp:  buildTimestamp,
	}
}
