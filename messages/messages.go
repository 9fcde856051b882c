package messages

import (
	"fmt"
	"strings"
	"time"

	"fargona_jobs_bot/database"
)

const (
	MsgHelp = `ℹ️ <b>Bot haqida yordam</b>

<b>Foydalanuvchilar uchun:</b>
• ➕ E'lon berish - yangi ish e'loni yaratish
• 📋 Mening e'lonlarim - o'z e'lonlaringizni ko'rish
• 🔍 /search so'z - tasdiqlangan e'lonlar ichidan qidirish
• 🕐 /recent - so'nggi e'lonlar
• ℹ️ Yordam - bu yordam sahifasi

<b>E'lon berish jarayoni:</b>
1. "E'lon berish" tugmasini bosing
2. Ish nomini kiriting
3. Batafsil tavsif yozing
4. Aloqa ma'lumotingizni qoldiring
5. Kategoriya tanlang

<b>Cheklovlar:</b>
• Kuniga maksimum %d ta e'lon
• E'lonlar %d kundan keyin o'chiriladi
• Barcha e'lonlar admin tekshiruvidan o'tadi`

	MsgNoAds = `📭 <b>E'lonlaringiz yo'q</b>

Hozircha hech qanday e'lon bermagansiz.
Yangi e'lon berish uchun "➕ E'lon berish" tugmasini bosing.`

	MsgAccessDenied = `❌ Sizda ushbu bo'limga kirish huquqi yo'q.`

	MsgNoPendingAds = `📭 Yangi e'lonlar yo'q.`

	MsgAdNotFound = `❌ E'lon topilmadi!`

	MsgUserNotFound = `❌ Bu ID bilan foydalanuvchi topilmadi!`

	MsgInvalidInput = `❌ Noto'g'ri kiritildi. Qaytadan urinib ko'ring.`

	MsgError = `❌ Xatolik yuz berdi!`

	MsgRateLimited = `⏳ Juda tez-tez so'rov yubordingiz. Birozdan keyin qaytadan urinib ko'ring.`

	MsgCancelled = `❌ Amal bekor qilindi.`

	MsgUserMode = `👤 Foydalanuvchi rejimi yoqildi.
Admin rejimiga qaytish uchun /start buyrug'ini yuboring.`

	MsgEnterTitle = `📝 <b>Yangi e'lon yaratish</b>

Ish nomini kiriting:
<i>Masalan: Python dasturchi, Kassir, Qurilish ustasi</i>`

	MsgEnterDescription = `📄 <b>Ish tavsifi</b>

Ish haqida batafsil ma'lumot bering:
<i>Talablar, ish vaqti, maosh va boshqa ma'lumotlar</i>`

	MsgEnterContact = `📞 <b>Aloqa ma'lumoti</b>

Bog'lanish uchun telefon raqam yoki username kiriting:
<i>Masalan: +998901234567 yoki @username</i>`

	MsgChooseCategory = `🏷 <b>Kategoriya tanlang:</b>`

	MsgTitleLengthError = `❌ Ish nomi 5-100 belgi orasida bo'lishi kerak.
Qaytadan kiriting:`

	MsgDescriptionLengthError = `❌ Tavsif 10-1000 belgi orasida bo'lishi kerak.
Qaytadan kiriting:`

	MsgContactLengthError = `❌ Aloqa ma'lumoti 5-50 belgi orasida bo'lishi kerak.
Qaytadan kiriting:`

	MsgNewAdminPrompt = `👤 <b>Yangi admin qo'shish</b>

Admin qilmoqchi bo'lgan foydalanuvchining Telegram ID raqamini yuboring:

<i>Misol: 123456789</i>

❌ Bekor qilish uchun /cancel buyrug'ini yuboring`

	MsgBlockUserPrompt = `🚫 <b>Foydalanuvchini bloklash</b>

Bloklamoqchi bo'lgan foydalanuvchining Telegram ID raqamini yuboring:

❌ Bekor qilish uchun /cancel buyrug'ini yuboring`

	MsgBadTelegramID = `❌ Noto'g'ri format! Faqat raqam kiriting.`

	MsgAlreadyAdmin = `❌ Bu foydalanuvchi allaqachon admin!`

	MsgNotAdmin = `❌ Bu foydalanuvchi admin emas!`

	MsgStatusFinal = `❌ Bu e'lon allaqachon ko'rib chiqilgan!`

	MsgCannotRemoveSuperadmin = `❌ Superadminni olib tashlash mumkin emas!`

	MsgAdminGranted = `🎉 <b>Tabriklaymiz!</b>

Siz endi botning admini bo'ldingiz.
Admin panelga kirish uchun /start buyrug'ini yuboring.`

	MsgAdminRevoked = `📢 <b>Xabar</b>

Sizning admin huquqlaringiz olib tashlandi.`

	MsgBroadcastPrompt = `📢 <b>Barcha foydalanuvchilarga xabar yuborish</b>

Yubormoqchi bo'lgan xabaringizni yozing:

<i>⚠️ Xabar barcha bot foydalanuvchilariga yuboriladi!</i>

❌ Bekor qilish uchun /cancel buyrug'ini yuboring`

	MsgBroadcastCancelled = `❌ Xabar yuborish bekor qilindi.`

	MsgSearchUsage = `🔍 Qidirish uchun so'z kiriting.
<i>Misol: /search haydovchi</i>`

	MsgNoResults = `📭 Hech narsa topilmadi.`

	MsgAdEdited = `✅ E'lon tahrirlandi.`

	MsgAdminManagement = `👥 <b>Admin boshqaruv</b>

Bu bo'limda siz:
• Yangi adminlar qo'shishingiz
• Mavjud adminlarni ko'rishingiz
• Adminlarni olib tashlashingiz
• Barcha foydalanuvchilarga xabar yuborishingiz mumkin`
)

// EscapeHTML escapes user-supplied text before HTML rendering.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

func StatusEmoji(status database.AdStatus) string {
	switch status {
	case database.StatusPending:
		return "⏳"
	case database.StatusApproved:
		return "✅"
	case database.StatusRejected:
		return "❌"
	}
	return "❓"
}

func StatusText(status database.AdStatus) string {
	switch status {
	case database.StatusPending:
		return "Ko'rib chiqilmoqda"
	case database.StatusApproved:
		return "Tasdiqlangan"
	case database.StatusRejected:
		return "Rad etilgan"
	}
	return "Noma'lum"
}

func FormatWelcome(name string) string {
	return fmt.Sprintf(`🎉 <b>Farg'ona Jobs Bot</b>ga xush kelibsiz!

👋 Salom, %s!

Bu bot orqali siz:
• 🆕 Ish e'lonlarini berishingiz
• 📋 O'z e'lonlaringizni kuzatishingiz
• 💼 Farg'ona viloyati bo'yicha ish imkoniyatlarini topishingiz mumkin

E'lonlaringiz admin tomonidan ko'rib chiqilgandan so'ng kanalda e'lon qilinadi.

<i>Botdan foydalanish uchun pastdagi tugmalardan birini tanlang:</i>`, EscapeHTML(name))
}

func FormatHelp(maxDaily, expiryDays int) string {
	return fmt.Sprintf(MsgHelp, maxDaily, expiryDays)
}

func FormatDailyLimit(count int) string {
	return fmt.Sprintf(`⚠️ <b>Kunlik limit</b>

Siz bugun allaqachon %d ta e'lon bergansiz.
Ertaga qaytadan harakat qiling.`, count)
}

func FormatAdCreated(title, category string) string {
	return fmt.Sprintf(`✅ <b>E'lon muvaffaqiyatli yaratildi!</b>

📝 <b>Sarlavha:</b> %s
🏷 <b>Kategoriya:</b> %s

⏳ E'loningiz admin tomonidan ko'rib chiqilmoqda.
Tasdiqlangandan so'ng kanalda e'lon qilinadi.`, EscapeHTML(title), category)
}

func FormatAdApprovedUser(title string) string {
	return fmt.Sprintf(`🎉 <b>E'loningiz tasdiqlandi!</b>

📝 E'lon: %s
📢 E'loningiz kanalda e'lon qilindi.`, EscapeHTML(title))
}

func FormatAdRejectedUser(title string) string {
	return fmt.Sprintf(`😔 <b>E'loningiz rad etildi</b>

📝 E'lon: %s
💡 E'loningizni qaytadan ko'rib chiqib, yangi e'lon bering.`, EscapeHTML(title))
}

func FormatAdEditedUser(fieldLabel, value string) string {
	return fmt.Sprintf(`✏️ <b>E'loningiz tahrirlandi</b>

%s: %s`, fieldLabel, EscapeHTML(value))
}

func FormatAdDeletedUser(title string) string {
	return fmt.Sprintf(`🗑 <b>E'loningiz o'chirildi</b>

📝 E'lon: %s
💡 Agar bu xato bo'lsa, adminlar bilan bog'laning.`, EscapeHTML(title))
}

func FormatAdApprovedAdmin(title string) string {
	return fmt.Sprintf(`✅ <b>E'lon tasdiqlandi va kanalga joylandi!</b>

📝 <b>Sarlavha:</b> %s`, EscapeHTML(title))
}

func FormatAdRejectedAdmin(title string) string {
	return fmt.Sprintf(`❌ <b>E'lon rad etildi!</b>

📝 <b>Sarlavha:</b> %s`, EscapeHTML(title))
}

func FormatAdDeletedAdmin(title string) string {
	return fmt.Sprintf(`🗑 <b>E'lon o'chirildi!</b>

📝 <b>Sarlavha:</b> %s`, EscapeHTML(title))
}

// FormatAdminCard renders the full listing for admin review.
func FormatAdminCard(ad *database.Ad, ownerName string) string {
	return fmt.Sprintf(`🆕 <b>Yangi e'lon</b>

👤 <b>Foydalanuvchi:</b> %s
📝 <b>Sarlavha:</b> %s
🏷 <b>Kategoriya:</b> %s
📄 <b>Tavsif:</b> %s
📞 <b>Aloqa:</b> %s

🕐 <b>Sana:</b> %s`,
		EscapeHTML(ownerName), EscapeHTML(ad.Title), ad.Category,
		EscapeHTML(ad.Description), EscapeHTML(ad.Contact),
		FormatDateTime(ad.CreatedAt))
}

// FormatAdDetails is the admin view of an existing ad, status included.
func FormatAdDetails(ad *database.Ad, ownerName string) string {
	return fmt.Sprintf(`📋 <b>E'lon ma'lumotlari</b>

👤 <b>Foydalanuvchi:</b> %s
📝 <b>Sarlavha:</b> %s
🏷 <b>Kategoriya:</b> %s
📄 <b>Tavsif:</b> %s
📞 <b>Aloqa:</b> %s
📊 <b>Holat:</b> %s %s

🕐 <b>Sana:</b> %s`,
		EscapeHTML(ownerName), EscapeHTML(ad.Title), ad.Category,
		EscapeHTML(ad.Description), EscapeHTML(ad.Contact),
		StatusEmoji(ad.Status), StatusText(ad.Status),
		FormatDateTime(ad.CreatedAt))
}

// FormatChannelPost renders an approved listing for the public channel.
func FormatChannelPost(ad *database.Ad) string {
	hashtag := strings.NewReplacer(" ", "_", "/", "_").Replace(ad.Category)

	return fmt.Sprintf(`💼 <b>%s</b>

🏷 <b>Kategoriya:</b> %s

📄 <b>Tavsif:</b>
%s

📞 <b>Aloqa:</b> %s

📅 <b>E'lon sanasi:</b> %s

#ish #vacancy #%s`,
		EscapeHTML(ad.Title), ad.Category, EscapeHTML(ad.Description),
		EscapeHTML(ad.Contact), FormatDate(ad.CreatedAt), hashtag)
}

func FormatDeleteConfirm(title string) string {
	return fmt.Sprintf(`🗑 <b>E'lonni o'chirish</b>

📝 <b>Sarlavha:</b> %s

❗️ Bu amalni bekor qilib bo'lmaydi!
E'lonni o'chirishni tasdiqlaysizmi?`, EscapeHTML(title))
}

func FormatEditMenu(ad *database.Ad, ownerName string) string {
	desc := ad.Description
	if len([]rune(desc)) > 100 {
		desc = string([]rune(desc)[:100]) + "..."
	}
	return fmt.Sprintf(`✏️ <b>E'lonni tahrirlash</b>

👤 <b>Foydalanuvchi:</b> %s
📝 <b>Sarlavha:</b> %s
🏷 <b>Kategoriya:</b> %s
📄 <b>Tavsif:</b> %s
📞 <b>Aloqa:</b> %s

Nimani tahrirlamoqchisiz?`,
		EscapeHTML(ownerName), EscapeHTML(ad.Title), ad.Category,
		EscapeHTML(desc), EscapeHTML(ad.Contact))
}

func FormatEditPrompt(fieldLabel, current string) string {
	return fmt.Sprintf(`✏️ <b>%s tahrirlash</b>

<b>Joriy qiymat:</b> %s

Yangi qiymatni kiriting:`, fieldLabel, EscapeHTML(current))
}

// FormatMyAds lists the user's own ads with a stats summary on top.
func FormatMyAds(ads []database.Ad, stats *database.UserStats) string {
	var b strings.Builder
	b.WriteString("📋 <b>Sizning e'lonlaringiz:</b>\n")
	if stats != nil {
		fmt.Fprintf(&b, "Jami: %d | ✅ %d | ⏳ %d | ❌ %d\n",
			stats.TotalAds, stats.ApprovedAds, stats.PendingAds, stats.RejectedAds)
	}
	b.WriteString("\n")

	for i, ad := range ads {
		fmt.Fprintf(&b, "%d. %s <b>%s</b>\n", i+1, StatusEmoji(ad.Status), EscapeHTML(ad.Title))
		fmt.Fprintf(&b, "   🏷 %s\n", ad.Category)
		fmt.Fprintf(&b, "   📅 %s\n", FormatDate(ad.CreatedAt))
		fmt.Fprintf(&b, "   📊 %s\n\n", StatusText(ad.Status))
	}
	return b.String()
}

// FormatAdList renders a compact ad list for admin browsing and search.
func FormatAdList(header string, ads []database.Ad) string {
	var b strings.Builder
	b.WriteString(header + "\n\n")

	for i, ad := range ads {
		fmt.Fprintf(&b, "%d. %s <b>%s</b> — %s\n   📞 %s | 📅 %s\n\n",
			i+1, StatusEmoji(ad.Status), EscapeHTML(ad.Title), ad.Category,
			EscapeHTML(ad.Contact), FormatDate(ad.CreatedAt))
	}
	return b.String()
}

func FormatStatistics(s *database.Statistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, `📊 <b>Bot statistikasi</b>

👥 <b>Foydalanuvchilar:</b> %d
📋 <b>Jami e'lonlar:</b> %d

📈 <b>E'lonlar holati bo'yicha:</b>
⏳ Ko'rib chiqilmoqda: %d
✅ Tasdiqlangan: %d
❌ Rad etilgan: %d

📅 <b>Bugungi e'lonlar:</b> %d
👤 <b>Bugungi yangi foydalanuvchilar:</b> %d

🏷 <b>Eng mashhur kategoriyalar:</b>
`,
		s.TotalUsers, s.TotalAds, s.PendingAds, s.ApprovedAds, s.RejectedAds,
		s.TodayAds, s.TodayUsers)

	for _, c := range s.PopularCategories {
		fmt.Fprintf(&b, "• %s: %d ta\n", c.Category, c.Count)
	}
	return b.String()
}

func FormatAdminList(admins []database.User) string {
	var b strings.Builder
	b.WriteString("👥 <b>Adminlar ro'yxati:</b>\n\n")

	for _, admin := range admins {
		emoji := "👤"
		if admin.Role == database.RoleSuperadmin {
			emoji = "👑"
		}
		fmt.Fprintf(&b, "%s %s\n   ID: <code>%d</code>\n   Role: %s\n\n",
			emoji, EscapeHTML(admin.FullName), admin.TelegramID, admin.Role)
	}

	b.WriteString("<i>Admin o'chirish uchun pastdagi tugmalardan birini bosing:</i>")
	return b.String()
}

func FormatAdminAdded(name string, telegramID int64) string {
	return fmt.Sprintf(`✅ <b>Yangi admin qo'shildi!</b>

👤 %s (ID: %d)`, EscapeHTML(name), telegramID)
}

func FormatUserBlocked(telegramID int64) string {
	return fmt.Sprintf("🚫 Foydalanuvchi bloklandi (ID: %d)", telegramID)
}

func FormatBroadcast(text string) string {
	return fmt.Sprintf("📢 <b>Yangilik</b>\n\n%s", EscapeHTML(text))
}

func FormatBroadcastConfirm(text string, userCount int) string {
	return fmt.Sprintf(`📢 <b>Xabarni tasdiqlang:</b>

<i>%s</i>

👥 <b>Foydalanuvchilar soni:</b> %d

Xabarni yuborishni tasdiqlaysizmi?`, EscapeHTML(text), userCount)
}

func FormatBroadcastResult(sent, failed int) string {
	return fmt.Sprintf(`✅ <b>Xabar yuborish yakunlandi!</b>

📤 Muvaffaqiyatli: %d
❌ Xatolik: %d

<i>Xatoliklar asosan bot bloklangan foydalanuvchilar tufayli.</i>`, sent, failed)
}

func FormatSettings(maxDaily, expiryDays int, startedAt string) string {
	return fmt.Sprintf(`⚙️ <b>Bot sozlamalari</b>

📋 Kunlik e'lon limiti: %d
⏳ E'lon muddati: %d kun
🕐 Bot ishga tushgan: %s`, maxDaily, expiryDays, startedAt)
}
