package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/atomicwriter"

	xerrors "crossreg/pkg/errors"
)

// maxSaveAttempts bounds the search for a free file name.
const maxSaveAttempts = 1000

// Save writes data to path without replacing an existing file. If path is
// taken, a counter is inserted before the extension: report.txt,
// report(1).txt, report(2).txt. It returns the path actually written.
func Save(path string, data []byte) (string, error) {
	target, err := freeName(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", xerrors.WrapIO("mkdir", dir, err)
		}
	}
	if err := atomicwriter.WriteFile(target, data, 0o644); err != nil {
		return "", xerrors.WrapIO("write", target, err)
	}
	return target, nil
}

func freeName(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	candidate := path
	for n := 1; n <= maxSaveAttempts; n++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", xerrors.WrapIO("stat", candidate, err)
		}
		candidate = fmt.Sprintf("%s(%d)%s", base, n, ext)
	}
	return "", xerrors.NewIOError("save", path, fmt.Errorf("no free file name after %d attempts", maxSaveAttempts))
}
