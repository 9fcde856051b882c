package handlers

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"fargona_jobs_bot/config"
	"fargona_jobs_bot/database"
)

// mainKeyboard is the persistent reply keyboard, widening with the role.
func mainKeyboard(role database.Role) *models.ReplyKeyboardMarkup {
	rows := [][]models.KeyboardButton{
		{{Text: btnNewAd}, {Text: btnMyAds}},
		{{Text: btnHelp}},
	}

	if role.IsAdmin() {
		rows = append(rows,
			[]models.KeyboardButton{{Text: btnStats}, {Text: btnPending}},
			[]models.KeyboardButton{{Text: btnAllAds}, {Text: btnSettings}},
		)
		if role == database.RoleSuperadmin {
			rows = append(rows, []models.KeyboardButton{{Text: btnAdmins}})
		}
		rows = append(rows, []models.KeyboardButton{{Text: btnUserMode}})
	}

	return &models.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}

// categoriesKeyboard lays the fixed category set out two per row. The wizard
// and the browse flow both resolve cat_{i} by index.
func categoriesKeyboard() *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	for i := 0; i < len(config.JobCategories); i += 2 {
		row := []models.InlineKeyboardButton{{
			Text:         config.JobCategories[i],
			CallbackData: fmt.Sprintf("cat_%d", i),
		}}
		if i+1 < len(config.JobCategories) {
			row = append(row, models.InlineKeyboardButton{
				Text:         config.JobCategories[i+1],
				CallbackData: fmt.Sprintf("cat_%d", i+1),
			})
		}
		rows = append(rows, row)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// adActionKeyboard attaches the moderation actions. Approve and reject only
// make sense for pending ads, edit and delete stay available.
func adActionKeyboard(adID int64, status database.AdStatus) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	if status == database.StatusPending {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "✅ Tasdiqlash", CallbackData: fmt.Sprintf("approve_%d", adID)},
			{Text: "❌ Rad etish", CallbackData: fmt.Sprintf("reject_%d", adID)},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "✏️ Tahrirlash", CallbackData: fmt.Sprintf("edit_%d", adID)},
		{Text: "🗑 O'chirish", CallbackData: fmt.Sprintf("delete_%d", adID)},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func editKeyboard(adID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "📝 Sarlavha", CallbackData: fmt.Sprintf("edit_title_%d", adID)}},
		{{Text: "📄 Tavsif", CallbackData: fmt.Sprintf("edit_desc_%d", adID)}},
		{{Text: "📞 Aloqa", CallbackData: fmt.Sprintf("edit_contact_%d", adID)}},
		{{Text: "⬅️ Orqaga", CallbackData: fmt.Sprintf("back_to_ad_%d", adID)}},
	}}
}

func deleteConfirmKeyboard(adID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{{
		{Text: "✅ Ha, o'chirish", CallbackData: fmt.Sprintf("confirm_delete_%d", adID)},
		{Text: "❌ Yo'q", CallbackData: fmt.Sprintf("back_to_ad_%d", adID)},
	}}}
}

func adminManagementKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "➕ Admin qo'shish", CallbackData: "add_admin"}},
		{{Text: "👥 Adminlar ro'yxati", CallbackData: "list_admins"}},
		{{Text: "📢 Xabar yuborish", CallbackData: "broadcast"}},
		{{Text: "🚫 Foydalanuvchini bloklash", CallbackData: "block_user"}},
	}}
}

// adminListKeyboard offers a removal button per admin. The superadmin is
// never removable, so it gets no button.
func adminListKeyboard(admins []database.User) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	for _, admin := range admins {
		if admin.Role == database.RoleSuperadmin {
			continue
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("🗑 %s", admin.FullName),
			CallbackData: fmt.Sprintf("remove_admin_%d", admin.TelegramID),
		}})
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func broadcastConfirmKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{{
		{Text: "✅ Yuborish", CallbackData: "confirm_broadcast"},
		{Text: "❌ Bekor qilish", CallbackData: "cancel_broadcast"},
	}}}
}
