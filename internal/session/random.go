package session

import (
	"github.com/fruitsalade/livebrowse/internal/logging"
	"github.com/fruitsalade/livebrowse/pkg/client"
)

// RandomMedia asks the server for a random media file under the current
// path and opens it. The control stays disabled until the request settles;
// triggers while it is disabled are ignored.
func (s *Session) RandomMedia() {
	s.post(s.randomMedia)
}

func (s *Session) randomMedia() {
	if s.busy {
		logging.Debug("random media already in progress")
		return
	}
	s.busy = true
	s.surface.SetBusy(true)

	path := s.nav.Path()
	ctx := s.ctx
	go func() {
		ref, err := s.api.RandomMedia(ctx, path)
		s.post(func() { s.finishRandomMedia(ref, err) })
	}()
}

func (s *Session) finishRandomMedia(ref string, err error) {
	defer func() {
		s.busy = false
		s.surface.SetBusy(false)
	}()

	if err != nil {
		logging.Warn("error playing random media", logging.Err(err))
		s.surface.Alert(client.AlertMessage(err))
		return
	}

	u, err := s.api.ResolveURL(ref)
	if err != nil {
		logging.Warn("cannot resolve media URL", logging.String("ref", ref), logging.Err(err))
		s.surface.Alert(client.AlertMessage(err))
		return
	}
	s.surface.Open(u)
}
