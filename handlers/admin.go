package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"fargona_jobs_bot/config"
	"fargona_jobs_bot/database"
	"fargona_jobs_bot/messages"
	"fargona_jobs_bot/moderation"
	"fargona_jobs_bot/roles"
	"fargona_jobs_bot/validate"
	"fargona_jobs_bot/wizard"
)

// ============================================
// Admin menu (reply keyboard buttons)
// ============================================

func (h *Handler) onStatistics(ctx context.Context, userID int64) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	stats, err := h.db.GetStatistics(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("statistics query failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	h.send(ctx, userID, messages.FormatStatistics(stats))
}

func (h *Handler) onPendingAds(ctx context.Context, userID int64) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	ads, err := h.db.GetAdsByStatus(ctx, database.StatusPending, 5)
	if err != nil {
		h.log.Error().Err(err).Msg("pending ads query failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	if len(ads) == 0 {
		h.send(ctx, userID, messages.MsgNoPendingAds)
		return
	}

	for i := range ads {
		ad := &ads[i]
		_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      userID,
			Text:        messages.FormatAdminCard(ad, h.ownerName(ctx, ad.UserID)),
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: adActionKeyboard(ad.ID, ad.Status),
		})
		if err != nil {
			h.log.Error().Err(err).Int64("ad_id", ad.ID).Msg("admin card send failed")
		}
	}
}

func (h *Handler) onAllAds(ctx context.Context, userID int64) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	ads, err := h.db.GetAllAds(ctx, 10)
	if err != nil {
		h.log.Error().Err(err).Msg("all ads query failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	if len(ads) == 0 {
		h.send(ctx, userID, messages.MsgNoResults)
		return
	}
	h.send(ctx, userID, messages.FormatAdList("🗂 <b>Barcha e'lonlar:</b>", ads))
}

func (h *Handler) onSettings(ctx context.Context, userID int64) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	startedAt, err := h.db.GetSetting(ctx, "bot_started_at")
	if err != nil {
		startedAt = "—"
	}
	h.send(ctx, userID, messages.FormatSettings(h.cfg.MaxDailyAds, h.cfg.AdExpiryDays, startedAt))
}

func (h *Handler) onAdminManagement(ctx context.Context, userID int64) {
	if err := h.auth.RequireSuperadmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}
	h.sendKeyboard(ctx, userID, messages.MsgAdminManagement, adminManagementKeyboard())
}

// ============================================
// Callback queries
// ============================================

func (h *Handler) OnCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cb := update.CallbackQuery

	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})
	if err != nil {
		h.log.Error().Err(err).Msg("callback answer failed")
	}

	userID := cb.From.ID
	if h.isBlocked(ctx, userID) {
		return
	}

	var msg *models.Message
	if cb.Message.Message != nil {
		msg = cb.Message.Message
	}
	data := cb.Data

	// longer prefixes before their generic counterparts
	switch {
	case strings.HasPrefix(data, "cat_"):
		h.onCategoryCallback(ctx, userID, data)
	case strings.HasPrefix(data, "approve_"):
		h.onApprove(ctx, userID, msg, adID(data, "approve_"))
	case strings.HasPrefix(data, "reject_"):
		h.onReject(ctx, userID, msg, adID(data, "reject_"))
	case strings.HasPrefix(data, "edit_title_"):
		h.onEditField(ctx, userID, adID(data, "edit_title_"), moderation.FieldTitle, wizard.StateEditTitle)
	case strings.HasPrefix(data, "edit_desc_"):
		h.onEditField(ctx, userID, adID(data, "edit_desc_"), moderation.FieldDescription, wizard.StateEditDescription)
	case strings.HasPrefix(data, "edit_contact_"):
		h.onEditField(ctx, userID, adID(data, "edit_contact_"), moderation.FieldContact, wizard.StateEditContact)
	case strings.HasPrefix(data, "edit_"):
		h.onEditMenu(ctx, userID, msg, adID(data, "edit_"))
	case strings.HasPrefix(data, "confirm_delete_"):
		h.onConfirmDelete(ctx, userID, msg, adID(data, "confirm_delete_"))
	case strings.HasPrefix(data, "delete_"):
		h.onDeletePrompt(ctx, userID, msg, adID(data, "delete_"))
	case strings.HasPrefix(data, "back_to_ad_"):
		h.onBackToAd(ctx, userID, msg, adID(data, "back_to_ad_"))
	case strings.HasPrefix(data, "remove_admin_"):
		h.onRemoveAdmin(ctx, userID, msg, adID(data, "remove_admin_"))
	case data == "admin_management":
		h.onAdminManagement(ctx, userID)
	case data == "add_admin":
		h.onPromptInput(ctx, userID, wizard.StateNewAdminID, messages.MsgNewAdminPrompt)
	case data == "block_user":
		h.onPromptInput(ctx, userID, wizard.StateBlockUserID, messages.MsgBlockUserPrompt)
	case data == "list_admins":
		h.onListAdmins(ctx, userID, nil)
	case data == "broadcast":
		h.onPromptInput(ctx, userID, wizard.StateBroadcast, messages.MsgBroadcastPrompt)
	case data == "confirm_broadcast":
		h.onConfirmBroadcast(ctx, userID)
	case data == "cancel_broadcast":
		h.onCancelBroadcast(ctx, userID)
	}
}

// onCategoryCallback serves two flows: finishing the submission wizard, or
// browsing approved ads by category when no wizard is active.
func (h *Handler) onCategoryCallback(ctx context.Context, userID int64, data string) {
	index, err := strconv.Atoi(strings.TrimPrefix(data, "cat_"))
	if err != nil || index < 0 || index >= len(config.JobCategories) {
		return
	}

	sess, err := h.machine.Session(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("session load failed")
		return
	}

	if sess.State == wizard.StateCategory {
		h.onCategorySelected(ctx, userID, index)
		return
	}

	category := config.JobCategories[index]
	ads, err := h.db.GetAdsByCategory(ctx, category, database.StatusApproved)
	if err != nil {
		h.log.Error().Err(err).Str("category", category).Msg("category query failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	if len(ads) == 0 {
		h.send(ctx, userID, messages.MsgNoResults)
		return
	}
	h.send(ctx, userID, messages.FormatAdList("🏷 <b>"+category+":</b>", ads))
}

func (h *Handler) onApprove(ctx context.Context, userID int64, msg *models.Message, adID int64) {
	ad, err := h.engine.Approve(ctx, userID, adID)
	if err != nil {
		h.send(ctx, userID, moderationErrText(err))
		return
	}
	h.editTo(ctx, msg, messages.FormatAdApprovedAdmin(ad.Title), nil)
	h.tlog.Sendf("✅ E'lon #%d tasdiqlandi", ad.ID)
}

func (h *Handler) onReject(ctx context.Context, userID int64, msg *models.Message, adID int64) {
	ad, err := h.engine.Reject(ctx, userID, adID)
	if err != nil {
		h.send(ctx, userID, moderationErrText(err))
		return
	}
	h.editTo(ctx, msg, messages.FormatAdRejectedAdmin(ad.Title), nil)
	h.tlog.Sendf("❌ E'lon #%d rad etildi", ad.ID)
}

func (h *Handler) onEditMenu(ctx context.Context, userID int64, msg *models.Message, adID int64) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	ad, err := h.db.GetAd(ctx, adID)
	if err != nil {
		h.send(ctx, userID, messages.MsgAdNotFound)
		return
	}
	h.editTo(ctx, msg, messages.FormatEditMenu(ad, h.ownerName(ctx, ad.UserID)), editKeyboard(ad.ID))
}

// onEditField arms the admin edit state, the new value arrives as the next
// text message.
func (h *Handler) onEditField(ctx context.Context, userID, adID int64, field moderation.Field, state wizard.State) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	ad, err := h.db.GetAd(ctx, adID)
	if err != nil {
		h.send(ctx, userID, messages.MsgAdNotFound)
		return
	}

	current := ad.Title
	switch field {
	case moderation.FieldDescription:
		current = ad.Description
	case moderation.FieldContact:
		current = ad.Contact
	}

	if err := h.sessions.Set(ctx, userID, wizard.Session{State: state, AdID: adID}); err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("session set failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	h.send(ctx, userID, messages.FormatEditPrompt(field.Label(), current))
}

func (h *Handler) onDeletePrompt(ctx context.Context, userID int64, msg *models.Message, adID int64) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	ad, err := h.db.GetAd(ctx, adID)
	if err != nil {
		h.send(ctx, userID, messages.MsgAdNotFound)
		return
	}
	h.editTo(ctx, msg, messages.FormatDeleteConfirm(ad.Title), deleteConfirmKeyboard(ad.ID))
}

func (h *Handler) onConfirmDelete(ctx context.Context, userID int64, msg *models.Message, adID int64) {
	ad, err := h.engine.Delete(ctx, userID, adID)
	if err != nil {
		h.send(ctx, userID, moderationErrText(err))
		return
	}
	h.editTo(ctx, msg, messages.FormatAdDeletedAdmin(ad.Title), nil)
	h.tlog.Sendf("🗑 E'lon #%d o'chirildi", adID)
}

func (h *Handler) onBackToAd(ctx context.Context, userID int64, msg *models.Message, adID int64) {
	if err := h.auth.RequireAdmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	ad, err := h.db.GetAd(ctx, adID)
	if err != nil {
		h.send(ctx, userID, messages.MsgAdNotFound)
		return
	}
	h.editTo(ctx, msg, messages.FormatAdDetails(ad, h.ownerName(ctx, ad.UserID)), adActionKeyboard(ad.ID, ad.Status))
}

func (h *Handler) onListAdmins(ctx context.Context, userID int64, msg *models.Message) {
	if err := h.auth.RequireSuperadmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	admins, err := h.db.GetAdmins(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("admin list query failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	text := messages.FormatAdminList(admins)
	kb := adminListKeyboard(admins)
	if msg != nil {
		h.editTo(ctx, msg, text, kb)
		return
	}
	h.sendKeyboard(ctx, userID, text, kb)
}

func (h *Handler) onRemoveAdmin(ctx context.Context, userID int64, msg *models.Message, targetID int64) {
	_, err := h.engine.Demote(ctx, userID, targetID)
	switch {
	case errors.Is(err, moderation.ErrSuperadminImmutable):
		h.send(ctx, userID, messages.MsgCannotRemoveSuperadmin)
		return
	case errors.Is(err, moderation.ErrNotAdmin):
		h.send(ctx, userID, messages.MsgNotAdmin)
		return
	case err != nil:
		h.send(ctx, userID, moderationErrText(err))
		return
	}

	h.tlog.Sendf("👤 Admin olib tashlandi: %d", targetID)
	h.onListAdmins(ctx, userID, msg)
}

// onPromptInput arms one of the superadmin input states.
func (h *Handler) onPromptInput(ctx context.Context, userID int64, state wizard.State, prompt string) {
	if err := h.auth.RequireSuperadmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	if err := h.sessions.Set(ctx, userID, wizard.Session{State: state}); err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("session set failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}
	h.send(ctx, userID, prompt)
}

func (h *Handler) onConfirmBroadcast(ctx context.Context, userID int64) {
	if err := h.auth.RequireSuperadmin(ctx, userID); err != nil {
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	sess, err := h.machine.Session(ctx, userID)
	if err != nil || sess.State != wizard.StateBroadcast || sess.Text == "" {
		h.send(ctx, userID, messages.MsgError)
		return
	}
	_ = h.sessions.Clear(ctx, userID)

	report, err := h.caster.Run(ctx, messages.FormatBroadcast(sess.Text))
	if err != nil {
		h.log.Error().Err(err).Msg("broadcast failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	h.send(ctx, userID, messages.FormatBroadcastResult(report.Sent, report.Blocked+report.Failed))
	h.tlog.Sendf("📢 Broadcast: %d yuborildi, %d xatolik", report.Sent, report.Blocked+report.Failed)
}

func (h *Handler) onCancelBroadcast(ctx context.Context, userID int64) {
	_ = h.sessions.Clear(ctx, userID)
	h.send(ctx, userID, messages.MsgBroadcastCancelled)
}

// ============================================
// Admin text input states
// ============================================

func (h *Handler) onAdminInput(ctx context.Context, userID int64, sess wizard.Session, text string) {
	switch sess.State {
	case wizard.StateEditTitle:
		h.applyEdit(ctx, userID, sess.AdID, moderation.FieldTitle, text, messages.MsgTitleLengthError)
	case wizard.StateEditDescription:
		h.applyEdit(ctx, userID, sess.AdID, moderation.FieldDescription, text, messages.MsgDescriptionLengthError)
	case wizard.StateEditContact:
		h.applyEdit(ctx, userID, sess.AdID, moderation.FieldContact, text, messages.MsgContactLengthError)
	case wizard.StateNewAdminID:
		h.applyPromote(ctx, userID, text)
	case wizard.StateBlockUserID:
		h.applyBlock(ctx, userID, text)
	case wizard.StateBroadcast:
		h.applyBroadcastDraft(ctx, userID, text)
	}
}

func (h *Handler) applyEdit(ctx context.Context, userID, adID int64, field moderation.Field, value, boundsMsg string) {
	_, err := h.engine.EditField(ctx, userID, adID, field, value)
	switch {
	case errors.Is(err, moderation.ErrInvalidValue):
		// state kept, the admin retries
		h.send(ctx, userID, boundsMsg)
		return
	case err != nil:
		_ = h.sessions.Clear(ctx, userID)
		h.send(ctx, userID, moderationErrText(err))
		return
	}

	_ = h.sessions.Clear(ctx, userID)
	h.send(ctx, userID, messages.MsgAdEdited)
}

func (h *Handler) applyPromote(ctx context.Context, userID int64, text string) {
	targetID, err := validate.ParseTelegramID(text)
	if err != nil {
		h.send(ctx, userID, messages.MsgBadTelegramID)
		return
	}

	target, err := h.engine.Promote(ctx, userID, targetID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		h.send(ctx, userID, messages.MsgUserNotFound)
		return
	case errors.Is(err, moderation.ErrAlreadyAdmin):
		_ = h.sessions.Clear(ctx, userID)
		h.send(ctx, userID, messages.MsgAlreadyAdmin)
		return
	case err != nil:
		_ = h.sessions.Clear(ctx, userID)
		h.send(ctx, userID, moderationErrText(err))
		return
	}

	_ = h.sessions.Clear(ctx, userID)
	h.send(ctx, userID, messages.FormatAdminAdded(target.FullName, targetID))
	h.tlog.Sendf("👤 Yangi admin: %s (%d)", messages.EscapeHTML(target.FullName), targetID)
}

func (h *Handler) applyBlock(ctx context.Context, userID int64, text string) {
	if err := h.auth.RequireSuperadmin(ctx, userID); err != nil {
		_ = h.sessions.Clear(ctx, userID)
		h.send(ctx, userID, messages.MsgAccessDenied)
		return
	}

	targetID, err := validate.ParseTelegramID(text)
	if err != nil {
		h.send(ctx, userID, messages.MsgBadTelegramID)
		return
	}

	switch err := h.db.BlockUser(ctx, targetID); {
	case errors.Is(err, database.ErrNotFound):
		h.send(ctx, userID, messages.MsgUserNotFound)
		return
	case err != nil:
		h.log.Error().Err(err).Int64("target_id", targetID).Msg("block failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	_ = h.sessions.Clear(ctx, userID)
	h.send(ctx, userID, messages.FormatUserBlocked(targetID))
	h.tlog.Sendf("🚫 Foydalanuvchi bloklandi: %d", targetID)
}

// applyBroadcastDraft stores the text and asks for confirmation, nothing is
// sent until the superadmin confirms.
func (h *Handler) applyBroadcastDraft(ctx context.Context, userID int64, text string) {
	if strings.TrimSpace(text) == "" {
		h.send(ctx, userID, messages.MsgInvalidInput)
		return
	}

	if err := h.sessions.Set(ctx, userID, wizard.Session{State: wizard.StateBroadcast, Text: text}); err != nil {
		h.log.Error().Err(err).Int64("telegram_id", userID).Msg("session set failed")
		h.send(ctx, userID, messages.MsgError)
		return
	}

	count := 0
	if users, err := h.db.GetAllUsers(ctx); err == nil {
		count = len(users)
	}
	h.sendKeyboard(ctx, userID, messages.FormatBroadcastConfirm(text, count), broadcastConfirmKeyboard())
}

// ============================================
// Helpers
// ============================================

// editTo rewrites the originating inline-keyboard message in place, falling
// back to a plain send when the message is inaccessible.
func (h *Handler) editTo(ctx context.Context, msg *models.Message, text string, kb *models.InlineKeyboardMarkup) {
	if msg == nil {
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	if _, err := h.bot.EditMessageText(ctx, params); err != nil {
		h.log.Error().Err(err).Int("message_id", msg.ID).Msg("message edit failed")
		h.send(ctx, msg.Chat.ID, text)
	}
}

func adID(data, prefix string) int64 {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func moderationErrText(err error) string {
	switch {
	case errors.Is(err, roles.ErrForbidden):
		return messages.MsgAccessDenied
	case errors.Is(err, database.ErrNotFound):
		return messages.MsgAdNotFound
	case errors.Is(err, moderation.ErrStatusFinal):
		return messages.MsgStatusFinal
	}
	return messages.MsgError
}
