// Package i18n holds the user-facing message catalog. Messages are keyed by
// stable identifiers and localized per user; unknown languages and missing
// keys fall back to English so the bot never sends an empty reply.
package i18n

import (
	"strings"

	"github.com/mkhalikov/cryptolocker/models"
)

// Message keys known to the catalog.
const (
	KeyWelcome          = "WELCOME"
	KeyMenuHint         = "MENU_HINT"
	KeyAskAddName       = "ASK_ADD_NAME"
	KeyAskAddUsername   = "ASK_ADD_USERNAME"
	KeyAskAddPassword   = "ASK_ADD_PASSWORD"
	KeyAddedSuccess     = "ADDED_SUCCESS"
	KeyAskSearch        = "ASK_SEARCH"
	KeyNoMatch          = "NO_MATCH"
	KeyShowHeader       = "SHOW_HEADER"
	KeyNoAccounts       = "NO_ACCOUNTS"
	KeyInvalidName      = "INVALID_NAME"
	KeyInvalidValue     = "INVALID_CREDENTIAL"
	KeyPromptRemove     = "PROMPT_REMOVE"
	KeyPromptEdit       = "PROMPT_EDIT"
	KeyPromptShow       = "PROMPT_SHOW"
	KeySearchResults    = "SEARCH_RESULTS"
	KeyAskNewUsername   = "ASK_NEW_USERNAME"
	KeyAskNewPassword   = "ASK_NEW_PASSWORD"
	KeyAskRemoveConfirm = "ASK_REMOVE_CONFIRM"
	KeyRemovedSuccess   = "REMOVED_SUCCESS"
	KeyEditChooseField  = "EDIT_CHOOSE_FIELD"
	KeyEditSuccess      = "EDIT_SUCCESS"
	KeyLangChangedEN    = "LANG_CHANGED_EN"
	KeyLangChangedFA    = "LANG_CHANGED_FA"
	KeyNotAdmin         = "NOT_ADMIN"
	KeyErrGeneric       = "ERR_GENERIC"

	KeyBtnAdd          = "BTN_ADD"
	KeyBtnSearch       = "BTN_SEARCH"
	KeyBtnRemove       = "BTN_REMOVE"
	KeyBtnEdit         = "BTN_EDIT"
	KeyBtnShow         = "BTN_SHOW"
	KeyBtnEditUsername = "BTN_EDIT_USERNAME"
	KeyBtnEditPassword = "BTN_EDIT_PASSWORD"
	KeyBtnYesDelete    = "BTN_YES_DELETE"
	KeyBtnNoCancel     = "BTN_NO_CANCEL"
	KeyBtnClose        = "BTN_CLOSE"
)

// T renders the message for key in lang. Placeholders appear in the catalog
// as {name} and are filled from kv, given as alternating name/value pairs.
// Unknown languages fall back to English, unknown keys render as the key
// itself.
func T(lang, key string, kv ...string) string {
	table, ok := catalog[lang]
	if !ok {
		table = catalog[models.DefaultLang]
	}

	tmpl, ok := table[key]
	if !ok {
		tmpl, ok = catalog[models.DefaultLang][key]
	}
	if !ok {
		return key
	}

	for i := 0; i+1 < len(kv); i += 2 {
		tmpl = strings.ReplaceAll(tmpl, "{"+kv[i]+"}", kv[i+1])
	}
	return tmpl
}

var catalog = map[string]map[string]string{
	models.LangEN: {
		KeyWelcome:          "Welcome to CryptoLocker — your Telegram password manager.",
		KeyMenuHint:         "Choose an action:",
		KeyAskAddName:       "Send a short name for this account (e.g., Gmail, Work VPN).",
		KeyAskAddUsername:   "Send the username for {name}.",
		KeyAskAddPassword:   "Send the password for {name}.",
		KeyAddedSuccess:     "Saved ✅ — your credentials for {name} were stored.",
		KeyAskSearch:        "Send the name to search for.",
		KeyNoMatch:          "No entries found for '{q}'.",
		KeyShowHeader:       "Your saved accounts:",
		KeyNoAccounts:       "You have not saved any accounts yet.",
		KeyInvalidName:      "Name must be between 1 and 64 characters.",
		KeyInvalidValue:     "Value must be between 1 and 512 characters.",
		KeyPromptRemove:     "Select an account to remove.",
		KeyPromptEdit:       "Select an account to edit.",
		KeyPromptShow:       "Select an account to display.",
		KeySearchResults:    "Select a result:",
		KeyAskNewUsername:   "Send the new username for {name}.",
		KeyAskNewPassword:   "Send the new password for {name}.",
		KeyAskRemoveConfirm: "Are you sure you want to permanently delete {name}? This cannot be undone.",
		KeyRemovedSuccess:   "{name} removed.",
		KeyEditChooseField:  "Do you want to change the username or password for {name}?",
		KeyEditSuccess:      "{field} updated for {name}.",
		KeyLangChangedEN:    "Language switched to English.",
		KeyLangChangedFA:    "Language switched to Persian.",
		KeyNotAdmin:         "You are not the bot admin.",
		KeyErrGeneric:       "Something went wrong. Please try again.",
		KeyBtnAdd:           "Add",
		KeyBtnSearch:        "Search",
		KeyBtnRemove:        "Remove",
		KeyBtnEdit:          "Edit",
		KeyBtnShow:          "Show",
		KeyBtnEditUsername:  "Change username",
		KeyBtnEditPassword:  "Change password",
		KeyBtnYesDelete:     "Yes, delete",
		KeyBtnNoCancel:      "No, cancel",
		KeyBtnClose:         "Close",
	},
	models.LangFA: {
		KeyWelcome:          "خوش اومدی به CryptoLocker — مدیر پسورد تو در تلگرام.",
		KeyMenuHint:         "یکی از گزینه‌ها را انتخاب کن:",
		KeyAskAddName:       "یک نام کوتاه برای اکانت بفرست (مثال: Gmail، VPN کار).",
		KeyAskAddUsername:   "نام کاربری برای {name} را ارسال کن.",
		KeyAskAddPassword:   "رمز عبور برای {name} را ارسال کن.",
		KeyAddedSuccess:     "ذخیره شد ✅ — اطلاعات {name} ثبت شد.",
		KeyAskSearch:        "اسم مورد نظر برای جستجو را بفرست.",
		KeyNoMatch:          "موردی با '{q}' پیدا نشد.",
		KeyShowHeader:       "اکانت‌های ذخیره‌شده:",
		KeyNoAccounts:       "هنوز هیچ اکانتی ذخیره نکرده‌ای.",
		KeyInvalidName:      "نام باید بین ۱ تا ۶۴ کاراکتر باشد.",
		KeyInvalidValue:     "مقدار باید بین ۱ تا ۵۱۲ کاراکتر باشد.",
		KeyPromptRemove:     "اکانتی که می‌خوای حذف کنی را انتخاب کن.",
		KeyPromptEdit:       "اکانتی که می‌خوای ویرایش کنی را انتخاب کن.",
		KeyPromptShow:       "اکانتی که می‌خوای ببینی را انتخاب کن.",
		KeySearchResults:    "یکی از نتایج را انتخاب کن:",
		KeyAskNewUsername:   "نام‌کاربری جدید برای {name} را بفرست.",
		KeyAskNewPassword:   "رمز جدید برای {name} را بفرست.",
		KeyAskRemoveConfirm: "مطمئنی می‌خوای {name} را حذف کنی؟ این عمل قابل بازگشت نیست.",
		KeyRemovedSuccess:   "{name} حذف شد.",
		KeyEditChooseField:  "می‌خوای نام‌کاربری را تغییر بدی یا رمز را؟",
		KeyEditSuccess:      "{field} برای {name} به‌روز شد.",
		KeyLangChangedEN:    "زبان به انگلیسی تغییر کرد.",
		KeyLangChangedFA:    "زبان به فارسی تغییر کرد.",
		KeyNotAdmin:         "تو ادمین بات نیستی.",
		KeyErrGeneric:       "مشکلی پیش اومد. دوباره تلاش کن.",
		KeyBtnAdd:           "افزودن",
		KeyBtnSearch:        "جستجو",
		KeyBtnRemove:        "حذف",
		KeyBtnEdit:          "ویرایش",
		KeyBtnShow:          "نمایش",
		KeyBtnEditUsername:  "تغییر نام‌کاربری",
		KeyBtnEditPassword:  "تغییر رمز",
		KeyBtnYesDelete:     "بله، حذف شود",
		KeyBtnNoCancel:      "خیر، انصراف",
		KeyBtnClose:         "بستن",
	},
}
