package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fargona_jobs_bot/database"
)

func TestEscapeHTML(t *testing.T) {
	require.Equal(t, "a &amp;&amp; b &lt;c&gt;", EscapeHTML("a && b <c>"))
}

func TestFormatChannelPost(t *testing.T) {
	ad := &database.Ad{
		Title:       "C++ dasturchi <senior>",
		Description: "Tajriba 3 yil",
		Category:    "🍽 Restoran/Kafe",
		Contact:     "@username",
		CreatedAt:   time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
	}
	post := FormatChannelPost(ad)

	// category hashtag must not contain spaces or slashes
	require.Contains(t, post, "#ish #vacancy #🍽_Restoran_Kafe")
	require.Contains(t, post, "&lt;senior&gt;")
	require.Contains(t, post, "15.08.2026")
}

func TestFormatMyAdsIncludesStats(t *testing.T) {
	ads := []database.Ad{
		{Title: "Kassir", Category: "🛍 Savdo", Status: database.StatusApproved},
	}
	stats := &database.UserStats{TotalAds: 3, ApprovedAds: 1, PendingAds: 1, RejectedAds: 1}

	out := FormatMyAds(ads, stats)
	require.Contains(t, out, "Jami: 3")
	require.Contains(t, out, "Kassir")

	// stats are optional
	require.NotContains(t, FormatMyAds(ads, nil), "Jami:")
}

func TestStatusRendering(t *testing.T) {
	require.Equal(t, "⏳", StatusEmoji(database.StatusPending))
	require.Equal(t, "Tasdiqlangan", StatusText(database.StatusApproved))
	require.Equal(t, "❓", StatusEmoji(database.AdStatus("weird")))
}
