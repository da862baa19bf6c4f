package automation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// captureArtifacts saves a full-page screenshot and a DOM dump for the
// failed run, named <timestamp>_<id>.*, under DataDir/artifacts. Capture is
// best-effort: a failing capture never masks the original error.
func (s *Service) captureArtifacts(src Diagnostics, id int64) {
	dir := filepath.Join(s.cfg.DataDir, "artifacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.LogWarnf("create artifacts dir: %v", err)
		return
	}
	base := filepath.Join(dir, fmt.Sprintf("%s_%d", time.Now().Format("20060102_150405"), id))

	if buf, err := src.Screenshot(); err != nil {
		s.log.LogWarnf("capture screenshot for registro %d: %v", id, err)
	} else if err := os.WriteFile(base+".png", buf, 0o644); err != nil {
		s.log.LogWarnf("write screenshot %s.png: %v", base, err)
	}

	if html, err := src.PageHTML(); err != nil {
		s.log.LogWarnf("capture page source for registro %d: %v", id, err)
	} else if err := os.WriteFile(base+".html", []byte(html), 0o644); err != nil {
		s.log.LogWarnf("write page source %s.html: %v", base, err)
	}
}
