// Package http provides http transport for ask
package http

import (
	"encoding/json"
	stdhttp "net/http"

	"ytchat/internal/modkit/httpkit"
	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/logger"
	"ytchat/internal/platform/net/http/bind"
	"ytchat/internal/services/api/ask/domain"
	ragdom "ytchat/internal/services/rag/domain"
)

// Register mounts the ask endpoint on the given router
func Register(r httpkit.Router, s ragdom.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.AskInput](r, "/", h.ask)
}

// RegisterBare mounts the ask endpoint without the envelope: the result is the
// whole body and failures are {"detail": message}, the shape the browser extension reads
func RegisterBare(r httpkit.Router, s ragdom.ServicePort) {
	h := &handlers{svc: s}
	r.Post("/", h.askBare)
}

type handlers struct{ svc ragdom.ServicePort }

// swagger:route POST /ask Ask askVideo
// @Summary Ask a question about a YouTube video
// @Description Answers from the transcript with timestamps, or summarizes the video when asked to
// @Tags Ask
// @Accept json
// @Produce json
// @Param payload body domain.AskInput true "Question"
// @Success 200 {object} ragdom.Result "answer or NO_ENGLISH_TRANSCRIPT status"
// @Failure 400 {object} httpkit.Envelope "invalid input"
// @Failure 500 {object} httpkit.Envelope "Internal server error"
// @Router /ask [post]
func (h *handlers) ask(r *stdhttp.Request, in domain.AskInput) (any, error) {
	res, err := h.svc.AnswerFromYouTube(r.Context(), ragdom.Input{
		YouTubeURL:  in.YouTubeURL,
		Question:    in.Question,
		ChatHistory: in.ChatHistory,
	})
	if err != nil {
		return nil, mask(r, err)
	}
	return res, nil
}

func (h *handlers) askBare(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[domain.AskInput](r)
	if err != nil {
		writeBare(w, r, perr.HTTPStatus(err), detail{Detail: perr.WireFrom(err).Message})
		return
	}
	out, err := h.ask(r, in)
	if err != nil {
		writeBare(w, r, perr.HTTPStatus(err), detail{Detail: perr.WireFrom(err).Message})
		return
	}
	writeBare(w, r, stdhttp.StatusOK, out)
}

type detail struct {
	Detail string `json:"detail"`
}

func writeBare(w stdhttp.ResponseWriter, r *stdhttp.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.C(r.Context()).Debug().Err(err).Msg("write response")
	}
}

// mask passes client errors through and hides the rest
func mask(r *stdhttp.Request, err error) error {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeValidation, perr.ErrorCodeJSON:
		return err
	}
	logger.C(r.Context()).Error().Err(err).Int("status", perr.HTTPStatus(err)).Msg("ask failed")
	return perr.Internalf("Internal server error")
}
