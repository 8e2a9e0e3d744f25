package scheduling

import (
	"hash/fnv"

	types "github.com/yungbote/studyflow-backend/internal/domain"
)

// ColorFor maps a subject name onto palette. Names that normalize to the same key
// always get the same color.
func ColorFor(name string, palette []string) string {
	if len(palette) == 0 {
		palette = DefaultConfig().Palette
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(types.SubjectKey(name)))
	return palette[h.Sum32()%uint32(len(palette))]
}
