package api

import (
	"errors"
	"net/http"

	"github.com/a-bouts/nav-viewer/xmpp"
)

func (s *server) feedback(w http.ResponseWriter, r *http.Request) {
	var f xmpp.Feedback
	if !decode(w, r, &f) {
		return
	}
	if f.Text == "" {
		writeError(w, http.StatusBadRequest, errors.New("empty feedback"))
		return
	}

	requestLogger(r, "feedback").Infof("Feedback from '%s'", f.From)

	if s.notifier == nil {
		writeError(w, http.StatusServiceUnavailable, xmpp.ErrNotConfigured)
		return
	}
	if err := s.notifier.Send(f.String()); err != nil {
		if errors.Is(err, xmpp.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		requestLogger(r, "feedback").WithError(err).Error("Error sending feedback")
		writeError(w, http.StatusBadGateway, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
