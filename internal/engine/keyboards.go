package engine

import (
	"strconv"

	"github.com/mkhalikov/cryptolocker/internal/i18n"
	"github.com/mkhalikov/cryptolocker/models"
)

// maxInlineEntries caps how many accounts fit on one inline keyboard.
const maxInlineEntries = 50

// Callback payloads are "<verb>" or "<verb>|<id>" or "<verb>|<id>|<field>".
const (
	cbShow          = "show"
	cbRemoveConfirm = "remove_confirm"
	cbRemoveDo      = "remove_do"
	cbEditSelect    = "edit_select"
	cbEditField     = "edit_field"
	cbCancel        = "cancel"
	cbClose         = "close"
	cbSep           = "|"
)

// mainMenu is the persistent reply keyboard with the five actions.
func mainMenu(lang string) *models.Keyboard {
	return &models.Keyboard{
		Rows: [][]models.Button{
			{{Label: i18n.T(lang, i18n.KeyBtnAdd)}, {Label: i18n.T(lang, i18n.KeyBtnSearch)}},
			{{Label: i18n.T(lang, i18n.KeyBtnRemove)}, {Label: i18n.T(lang, i18n.KeyBtnEdit)}},
			{{Label: i18n.T(lang, i18n.KeyBtnShow)}},
		},
	}
}

// entryList renders one button per account, each carrying verb|id.
func entryList(entries []models.CredentialSummary, verb string) *models.Keyboard {
	if len(entries) > maxInlineEntries {
		entries = entries[:maxInlineEntries]
	}
	rows := make([][]models.Button, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []models.Button{{
			Label: entry.Name,
			Data:  verb + cbSep + strconv.FormatInt(entry.ID, 10),
		}})
	}
	return &models.Keyboard{Inline: true, Rows: rows}
}

func confirmDelete(lang string, id int64) *models.Keyboard {
	return &models.Keyboard{
		Inline: true,
		Rows: [][]models.Button{{
			{Label: i18n.T(lang, i18n.KeyBtnYesDelete), Data: cbRemoveDo + cbSep + strconv.FormatInt(id, 10)},
			{Label: i18n.T(lang, i18n.KeyBtnNoCancel), Data: cbCancel},
		}},
	}
}

func editChoice(lang string, id int64) *models.Keyboard {
	idStr := strconv.FormatInt(id, 10)
	return &models.Keyboard{
		Inline: true,
		Rows: [][]models.Button{{
			{Label: i18n.T(lang, i18n.KeyBtnEditUsername), Data: cbEditField + cbSep + idStr + cbSep + string(models.FieldUsername)},
			{Label: i18n.T(lang, i18n.KeyBtnEditPassword), Data: cbEditField + cbSep + idStr + cbSep + string(models.FieldPassword)},
		}},
	}
}

func closeOnly(lang string) *models.Keyboard {
	return &models.Keyboard{
		Inline: true,
		Rows: [][]models.Button{{
			{Label: i18n.T(lang, i18n.KeyBtnClose), Data: cbClose},
		}},
	}
}
