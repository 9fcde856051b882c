package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTitleBounds(t *testing.T) {
	require.False(t, TitleOK("Ish"))
	require.True(t, TitleOK("Kassir kerak"))
	require.True(t, TitleOK(strings.Repeat("a", 100)))
	require.False(t, TitleOK(strings.Repeat("a", 101)))

	// bounds are in runes, not bytes
	require.True(t, TitleOK(strings.Repeat("ў", 100)))
}

func TestDescriptionBounds(t *testing.T) {
	require.False(t, DescriptionOK("qisqa"))
	require.True(t, DescriptionOK("Ish vaqti 9:00-18:00, maosh kelishiladi"))
	require.False(t, DescriptionOK(strings.Repeat("a", 1001)))
}

func TestContactBounds(t *testing.T) {
	require.False(t, ContactOK("+99"))
	require.True(t, ContactOK("+998901234567"))
	require.False(t, ContactOK(strings.Repeat("9", 51)))
}

func TestIsPhone(t *testing.T) {
	require.True(t, IsPhone("+998901234567"))
	require.True(t, IsPhone("998901234567"))
	require.True(t, IsPhone("901234567"))
	require.True(t, IsPhone("+79161234567"))
	require.True(t, IsPhone("+998 90 123-45-67")) // separators are stripped

	require.False(t, IsPhone("@username"))
	require.False(t, IsPhone("12345"))
}

func TestIsUsername(t *testing.T) {
	require.True(t, IsUsername("@dasturchi_92"))
	require.False(t, IsUsername("dasturchi_92")) // missing @
	require.False(t, IsUsername("@abc"))         // too short
	require.False(t, IsUsername("@bad-name"))
}

func TestIsContact(t *testing.T) {
	require.True(t, IsContact("+998901234567"))
	require.True(t, IsContact("@username"))
	require.False(t, IsContact("kechqurun qo'ng'iroq qiling"))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Kassir kerak", CleanText("  Kassir \n\t kerak  "))
	require.Equal(t, "abc", CleanText("a\u202eb\u200bc"))
	require.Equal(t, "", CleanText("   "))
}

func TestParseTelegramID(t *testing.T) {
	id, err := ParseTelegramID(" 123456789 ")
	require.NoError(t, err)
	require.Equal(t, int64(123456789), id)

	for _, bad := range []string{"abc", "-5", "123", "99999999999"} {
		_, err := ParseTelegramID(bad)
		require.ErrorIs(t, err, ErrBadTelegramID, bad)
	}
}
