package chunk

import (
	"fmt"

	"github.com/vnykmshr/chunkq/internal/format"
)

// ChunkPath returns the file path of the chunk with the given id for the
// queue whose head file lives at headPath.
//
// Naming convention: a head file at <dir>/<name> puts chunk i at
// <dir>/<name>.<i mod MaxID>, with i rendered in decimal.
func ChunkPath(headPath string, id uint16) string {
	return fmt.Sprintf("%s.%d", headPath, uint32(id)%uint32(format.MaxID))
}
