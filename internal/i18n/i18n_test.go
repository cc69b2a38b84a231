package i18n

import (
	"strings"
	"testing"

	"github.com/mkhalikov/cryptolocker/models"
)

func TestT_Placeholders(t *testing.T) {
	got := T(models.LangEN, KeyAddedSuccess, "name", "Gmail")
	if !strings.Contains(got, "Gmail") {
		t.Errorf("placeholder not substituted: %q", got)
	}
	if strings.Contains(got, "{name}") {
		t.Errorf("placeholder left in output: %q", got)
	}
}

func TestT_MultiplePlaceholders(t *testing.T) {
	got := T(models.LangEN, KeyEditSuccess, "field", "username", "name", "Gmail")
	if !strings.Contains(got, "username") || !strings.Contains(got, "Gmail") {
		t.Errorf("expected both placeholders filled, got %q", got)
	}
}

func TestT_UnknownLangFallsBackToEnglish(t *testing.T) {
	en := T(models.LangEN, KeyWelcome)
	if got := T("de", KeyWelcome); got != en {
		t.Errorf("expected English fallback, got %q", got)
	}
}

func TestT_UnknownKeyRendersKey(t *testing.T) {
	if got := T(models.LangEN, "NO_SUCH_KEY"); got != "NO_SUCH_KEY" {
		t.Errorf("expected key echo, got %q", got)
	}
}

func TestCatalog_LanguagesCoverSameKeys(t *testing.T) {
	en := catalog[models.LangEN]
	fa := catalog[models.LangFA]

	for key := range en {
		if _, ok := fa[key]; !ok {
			t.Errorf("key %s missing from fa catalog", key)
		}
	}
	for key := range fa {
		if _, ok := en[key]; !ok {
			t.Errorf("key %s missing from en catalog", key)
		}
	}
}

func TestT_Persian(t *testing.T) {
	got := T(models.LangFA, KeyRemovedSuccess, "name", "Gmail")
	if !strings.Contains(got, "Gmail") {
		t.Errorf("placeholder not substituted in fa catalog: %q", got)
	}
}
