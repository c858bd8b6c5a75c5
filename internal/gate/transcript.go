package gate

import (
	"path"
	"strings"

	"github.com/hithonix/hireflow/internal/domain"
)

// extensionRank orders transcript candidates by how reliably their format
// extracts to text. Lower is better.
var extensionRank = map[string]int{
	".txt":  0,
	".docx": 1,
	".pdf":  2,
	".md":   3,
}

// Audio and video files are never transcripts, even when named like one.
var mediaExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".aac": true, ".ogg": true,
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true, ".webm": true,
}

// FindStageTranscript scans a raw document listing for the stage's interview
// transcript. Matching is case-insensitive on the file name with
// underscores treated as spaces: the name must mention both the stage token
// and "transcript". When several files match, the best-ranked extension
// wins; ties keep the first listed.
func FindStageTranscript(listing []domain.DocumentRef, stage domain.Stage) (domain.DocumentRef, bool) {
	stageToken := strings.ToLower(string(stage))

	best := domain.DocumentRef{}
	bestRank := len(extensionRank)
	for _, ref := range listing {
		name := strings.ReplaceAll(strings.ToLower(ref.Name), "_", " ")
		if !strings.Contains(name, stageToken) || !strings.Contains(name, "transcript") {
			continue
		}
		ext := strings.ToLower(path.Ext(ref.Name))
		if mediaExtensions[ext] || isMediaMime(ref.MimeType) {
			continue
		}
		rank, ok := extensionRank[ext]
		if !ok {
			continue
		}
		if rank < bestRank {
			best, bestRank = ref, rank
		}
	}
	return best, !best.IsZero()
}

func isMediaMime(mime string) bool {
	return strings.HasPrefix(mime, "audio/") || strings.HasPrefix(mime, "video/")
}
