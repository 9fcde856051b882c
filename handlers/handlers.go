// Package handlers is the Telegram transport: it routes messages and callback
// queries to the wizard, the moderation engine and the data store, and renders
// the replies. No business rules live here.
package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"fargona_jobs_bot/broadcast"
	"fargona_jobs_bot/config"
	"fargona_jobs_bot/database"
	"fargona_jobs_bot/messages"
	"fargona_jobs_bot/moderation"
	"fargona_jobs_bot/ratelimit"
	"fargona_jobs_bot/roles"
	"fargona_jobs_bot/tglog"
	"fargona_jobs_bot/wizard"
)

// Reply keyboard button labels. The router matches message text against these.
const (
	btnNewAd     = "➕ E'lon berish"
	btnMyAds     = "📋 Mening e'lonlarim"
	btnHelp      = "ℹ️ Yordam"
	btnStats     = "📊 Statistika"
	btnPending   = "📋 Yangi e'lonlar"
	btnAllAds    = "🗂 Barcha e'lonlar"
	btnSettings  = "⚙️ Sozlamalar"
	btnAdmins    = "👥 Admin boshqaruv"
	btnUserMode  = "👤 Foydalanuvchi rejimi"
	btnAdminMode = "👨‍💼 Admin rejimi"
)

type Handler struct {
	bot      *bot.Bot
	cfg      *config.Config
	db       *database.DB
	auth     *roles.Authority
	machine  *wizard.Machine
	sessions wizard.SessionStore
	engine   *moderation.Engine
	caster   *broadcast.Broadcaster
	limiter  *ratelimit.Limiter
	tlog     *tglog.Logger
	log      zerolog.Logger
}

func New(b *bot.Bot, cfg *config.Config, db *database.DB, sessions wizard.SessionStore, tlog *tglog.Logger, log zerolog.Logger) *Handler {
	auth := roles.NewAuthority(db)
	sender := botSender{bot: b}

	return &Handler{
		bot:      b,
		cfg:      cfg,
		db:       db,
		auth:     auth,
		machine:  wizard.New(sessions, db, config.JobCategories, cfg.MaxDailyAds, cfg.AdRetention()),
		sessions: sessions,
		engine: moderation.NewEngine(db, auth, sender,
			botPublisher{bot: b, channelID: cfg.ChannelID}, log),
		caster:  broadcast.New(db, sender, cfg.BroadcastPace, log),
		limiter: ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow),
		tlog:    tlog,
		log:     log,
	}
}

// botSender delivers plain messages to a single chat. Shared by the
// moderation engine and the broadcaster.
type botSender struct {
	bot *bot.Bot
}

func (s botSender) Send(ctx context.Context, chatID int64, text string) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// botPublisher posts approved listings to the public channel.
type botPublisher struct {
	bot       *bot.Bot
	channelID string
}

func (p botPublisher) Publish(ctx context.Context, text string) error {
	_, err := p.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    p.channelID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

func (h *Handler) OnMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	if msg.Chat.Type != "private" {
		return
	}
	userID := msg.From.ID

	if h.isBlocked(ctx, userID) {
		return
	}

	switch {
	case strings.HasPrefix(msg.Text, "/start"):
		h.onStart(ctx, msg)
	case strings.HasPrefix(msg.Text, "/cancel"):
		h.onCancel(ctx, userID)
	case strings.HasPrefix(msg.Text, "/help"), msg.Text == btnHelp:
		h.send(ctx, userID, messages.FormatHelp(h.cfg.MaxDailyAds, h.cfg.AdExpiryDays))
	case strings.HasPrefix(msg.Text, "/search"):
		h.onSearch(ctx, userID, strings.TrimSpace(strings.TrimPrefix(msg.Text, "/search")))
	case strings.HasPrefix(msg.Text, "/recent"):
		h.onRecent(ctx, userID)
	case msg.Text == btnNewAd:
		h.onNewAd(ctx, userID)
	case msg.Text == btnMyAds:
		h.onMyAds(ctx, userID)
	case msg.Text == btnStats:
		h.onStatistics(ctx, userID)
	case msg.Text == btnPending:
		h.onPendingAds(ctx, userID)
	case msg.Text == btnAllAds:
		h.onAllAds(ctx, userID)
	case msg.Text == btnSettings:
		h.onSettings(ctx, userID)
	case msg.Text == btnAdmins:
		h.onAdminManagement(ctx, userID)
	case msg.Text == btnUserMode:
		h.sendKeyboard(ctx, userID, messages.MsgUserMode, mainKeyboard(database.RoleUser))
	case msg.Text == btnAdminMode:
		h.onStart(ctx, msg)
	default:
		h.onStateInput(ctx, userID, msg.Text)
	}
}

func (h *Handler) onStart(ctx context.Context, msg *models.Message) {
	userID := msg.From.ID
	name := fullName(msg.From)

	user, err := h.db.CreateUser(ctx, userID, name, database.RoleUser)
	if err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("user upsert failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	// a pending wizard draft does not survive /start
	_ = h.sessions.Clear(ctx, userID)

	h.sendKeyboard(ctx, userID, messages.FormatWelcome(name), mainKeyboard(user.Role))
}

func (h *Handler) onCancel(ctx context.Context, userID int64) {
	if err := h.machine.Cancel(ctx, userID); err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("cancel failed")
	}
	role, _ := h.auth.Resolve(ctx, userID)
	h.sendKeyboard(ctx, userID, messages.MsgCancelled, mainKeyboard(role))
}

func (h *Handler) onNewAd(ctx context.Context, userID int64) {
	if !h.limiter.Allow(userID) {
		h.send(ctx, userID, messages.MsgRateLimited)
		return
	}

	err := h.machine.Start(ctx, userID)
	switch {
	case errors.Is(err, wizard.ErrDailyLimit):
		h.send(ctx, userID, messages.FormatDailyLimit(h.cfg.MaxDailyAds))
	case err != nil:
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("wizard start failed")
		h.send(ctx, userID, messages.MsgError)
	default:
		h.send(ctx, userID, messages.MsgEnterTitle)
	}
}

func (h *Handler) onMyAds(ctx context.Context, userID int64) {
	ads, err := h.db.GetUserAds(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("my ads query failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	if len(ads) == 0 {
		h.send(ctx, userID, messages.MsgNoAds)
		return
	}

	stats, err := h.db.GetUserStats(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("user stats query failed")
		stats = nil
	}
	h.send(ctx, userID, messages.FormatMyAds(ads, stats))
}

func (h *Handler) onSearch(ctx context.Context, userID int64, query string) {
	if query == "" {
		h.send(ctx, userID, messages.MsgSearchUsage)
		return
	}

	ads, err := h.db.SearchAds(ctx, query, "", database.StatusApproved)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("search failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	if len(ads) == 0 {
		h.send(ctx, userID, messages.MsgNoResults)
		return
	}
	h.send(ctx, userID, messages.FormatAdList("🔍 <b>Qidiruv natijalari:</b>", ads))
}

func (h *Handler) onRecent(ctx context.Context, userID int64) {
	ads, err := h.db.GetRecentAds(ctx, 3, database.StatusApproved)
	if err != nil {
		h.log.Error().Err(err).Msg("recent ads query failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	if len(ads) == 0 {
		h.send(ctx, userID, messages.MsgNoResults)
		return
	}
	h.send(ctx, userID, messages.FormatAdList("🕐 <b>So'nggi e'lonlar:</b>", ads))
}

// onStateInput dispatches free-form text by the user's session state: the
// submission wizard steps first, then the admin input states.
func (h *Handler) onStateInput(ctx context.Context, userID int64, text string) {
	if !h.limiter.Allow(userID) {
		h.send(ctx, userID, messages.MsgRateLimited)
		return
	}

	sess, err := h.machine.Session(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("session load failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	switch sess.State {
	case wizard.StateTitle, wizard.StateDescription, wizard.StateContact:
		h.onWizardInput(ctx, userID, text)
	case wizard.StateEditTitle, wizard.StateEditDescription, wizard.StateEditContact,
		wizard.StateNewAdminID, wizard.StateBlockUserID, wizard.StateBroadcast:
		h.onAdminInput(ctx, userID, sess, text)
	default:
		h.send(ctx, userID, messages.FormatHelp(h.cfg.MaxDailyAds, h.cfg.AdExpiryDays))
	}
}

func (h *Handler) onWizardInput(ctx context.Context, userID int64, text string) {
	state, err := h.machine.Input(ctx, userID, text)
	if err != nil && !errors.Is(err, wizard.ErrInvalidInput) {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("wizard input failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	if errors.Is(err, wizard.ErrInvalidInput) {
		switch state {
		case wizard.StateTitle:
			h.send(ctx, userID, messages.MsgTitleLengthError)
		case wizard.StateDescription:
			h.send(ctx, userID, messages.MsgDescriptionLengthError)
		case wizard.StateContact:
			h.send(ctx, userID, messages.MsgContactLengthError)
		}
		return
	}

	switch state {
	case wizard.StateDescription:
		h.send(ctx, userID, messages.MsgEnterDescription)
	case wizard.StateContact:
		h.send(ctx, userID, messages.MsgEnterContact)
	case wizard.StateCategory:
		h.sendKeyboard(ctx, userID, messages.MsgChooseCategory, categoriesKeyboard())
	}
}

// onCategorySelected finalizes the wizard and fans the new listing out to the
// admins for review.
func (h *Handler) onCategorySelected(ctx context.Context, userID int64, index int) {
	ad, err := h.machine.SelectCategory(ctx, userID, index)
	switch {
	case errors.Is(err, wizard.ErrBadState), errors.Is(err, wizard.ErrInvalidInput):
		return
	case err != nil:
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("ad create failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	role, _ := h.auth.Resolve(ctx, userID)
	h.sendKeyboard(ctx, userID, messages.FormatAdCreated(ad.Title, ad.Category), mainKeyboard(role))

	h.notifyAdmins(ctx, ad)
	h.tlog.Sendf("🆕 Yangi e'lon #%d: %s", ad.ID, messages.EscapeHTML(ad.Title))
}

// notifyAdmins is best-effort: a failed delivery to one admin never blocks
// the rest, the listing is already committed.
func (h *Handler) notifyAdmins(ctx context.Context, ad *database.Ad) {
	admins, err := h.db.GetAdmins(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("admin list query failed")
		return
	}
	card := messages.FormatAdminCard(ad, h.ownerName(ctx, ad.UserID))

	for _, admin := range admins {
		_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      admin.TelegramID,
			Text:        card,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: adActionKeyboard(ad.ID, ad.Status),
		})
		if err != nil && !broadcast.IsBlocked(err) {
			h.log.Error().Err(err).Int64("telegram_id", admin.TelegramID).Msg("admin notify failed")
		}
	}
}

func (h *Handler) isBlocked(ctx context.Context, userID int64) bool {
	user, err := h.db.GetUser(ctx, userID)
	if err != nil {
		return false
	}
	return user.IsBlocked
}

func (h *Handler) ownerName(ctx context.Context, telegramID int64) string {
	owner, err := h.db.GetUser(ctx, telegramID)
	if err != nil {
		return "—"
	}
	return owner.FullName
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil && !broadcast.IsBlocked(err) {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (h *Handler) sendKeyboard(ctx context.Context, chatID int64, text string, kb models.ReplyMarkup) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil && !broadcast.IsBlocked(err) {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func fullName(u *models.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
