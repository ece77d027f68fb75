package session

import (
	"github.com/fruitsalade/livebrowse/internal/logging"
	"github.com/fruitsalade/livebrowse/internal/metrics"
	"github.com/fruitsalade/livebrowse/internal/render"
	"github.com/fruitsalade/livebrowse/pkg/models"
)

// load fetches the current path with the current sort. Each load takes a new
// token; the completion is posted back to the loop.
func (s *Session) load() {
	s.token++
	token := s.token
	path, sort := s.nav.Path(), s.nav.Sort()
	ctx := s.ctx

	logging.Debug("loading directory",
		logging.String("path", path),
		logging.String("sort", string(sort.Column)),
		logging.String("order", string(sort.Order)),
		logging.Uint64("token", token),
	)

	go func() {
		snap, err := s.api.ListDirectory(ctx, path, sort)
		s.post(func() { s.finishLoad(token, path, snap, err) })
	}()
}

func (s *Session) finishLoad(token uint64, path string, snap *models.DirectorySnapshot, err error) {
	if s.dropStale && token != s.token {
		metrics.RecordStaleLoad()
		logging.Debug("dropping stale listing",
			logging.String("path", path),
			logging.Uint64("token", token),
			logging.Uint64("latest", s.token),
		)
		return
	}

	if err != nil {
		logging.Warn("error loading directory", logging.String("path", path), logging.Err(err))
		s.view.List = render.ErrorList(err.Error())
		s.surface.PaintList(s.view.List)
		return
	}

	s.snapshot = snap
	s.view = s.renderer.Render(snap, s.nav.Sort())
	s.surface.Paint(s.view)
}
