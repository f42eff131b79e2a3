package rest

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/rocketscienceinc/tictactoe-lan/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lan/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-lan/internal/usecase"
)

const (
	qrSize               = 256
	forwardedProtoHeader = "X-Forwarded-Proto"
)

type gameUseCase interface {
	Join(ctx context.Context, identity string) (entity.View, entity.Mark)
	Play(ctx context.Context, identity, cell string) (entity.MoveOutcome, error)
	Switch(ctx context.Context) bool
	Reset(ctx context.Context) entity.View
	View() entity.View
}

type liveUpdates interface {
	Serve(w http.ResponseWriter, r *http.Request, identity string)
}

type handlers struct {
	logger *slog.Logger
	pages  *pages

	game gameUseCase
	live liveUpdates

	trustForwarded bool
}

func (that *handlers) identity(r *http.Request) string {
	return pkg.ClientIdentity(r, that.trustForwarded)
}

// Index shows the board, seating the visitor when a seat is free.
func (that *handlers) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, mark := that.game.Join(r.Context(), that.identity(r))

	that.render(w, that.pages.index, &page{
		View:  view,
		Mark:  mark,
		Flash: popFlash(w, r),
	})
}

// Move plays the posted cell. Rejections come back to the board as a flash
// message.
func (that *handlers) Move(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "Move")
	identity := that.identity(r)

	outcome, err := that.game.Play(r.Context(), identity, r.PostFormValue("cell"))
	if err != nil {
		if !apperror.IsRejection(err) {
			log.Error("failed to play", "identity", identity, "error", err)
			that.fail(w)
			return
		}

		setFlash(w, usecase.RejectionMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if outcome.IsTerminal() {
		http.Redirect(w, r, "/winner", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Winner shows the result of a finished round.
func (that *handlers) Winner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view := that.game.View()
	if !view.IsOver() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	that.render(w, that.pages.winner, &page{
		View: view,
		Mark: view.MarkOf(that.identity(r)),
	})
}

func (that *handlers) Switch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	that.game.Switch(r.Context())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (that *handlers) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	that.game.Reset(r.Context())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (that *handlers) Live(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	that.live.Serve(w, r, that.identity(r))
}

// QR renders a code pointing at the board so others can join from a phone.
func (that *handlers) QR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	png, err := qrcode.Encode(inviteURL(r, that.trustForwarded), qrcode.Medium, qrSize)
	if err != nil {
		that.logger.Error("failed to encode qr code", "error", err)
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(w)

	_, _ = w.Write(png)
}

// inviteURL is the board address as seen by the client. X-Forwarded-Proto is
// only honoured when proxies are trusted, and only for http or https.
func inviteURL(r *http.Request, trustForwarded bool) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	if trustForwarded {
		switch proto := strings.ToLower(strings.TrimSpace(r.Header.Get(forwardedProtoHeader))); proto {
		case "http", "https":
			scheme = proto
		}
	}

	return scheme + "://" + r.Host + "/"
}

func (that *handlers) render(w http.ResponseWriter, tmpl *template.Template, data *page) {
	if err := render(w, tmpl, http.StatusOK, data); err != nil {
		that.logger.Error("failed to render page", "error", err)
		that.fail(w)
	}
}

// fail answers with the generic error page.
func (that *handlers) fail(w http.ResponseWriter) {
	if err := render(w, that.pages.failure, http.StatusInternalServerError, &page{}); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
