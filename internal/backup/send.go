package backup

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
)

var (
	clipboardWriteFunc = clipboard.WriteAll
	openURLFunc        = browser.OpenURL
)

// SendResult reports which of the best-effort steps of Send worked.
type SendResult struct {
	Text   string
	URL    string
	Copied bool
	Opened bool
}

// BotURL returns the chat link for a bot username, with or without "@".
func BotURL(bot string) string {
	bot = strings.TrimPrefix(strings.TrimSpace(bot), "@")
	if bot == "" {
		bot = constants.DefaultBotUsername
	}
	return constants.BotURLPrefix + bot
}

// Send encodes state, copies the message to the clipboard and opens the
// bot chat. Clipboard and browser failures are logged and reported in the
// result; only encoding can fail.
func Send(state *models.State, bot string, now time.Time) (SendResult, error) {
	text, err := Encode(state, now)
	if err != nil {
		return SendResult{}, err
	}

	res := SendResult{Text: text, URL: BotURL(bot)}
	if err := clipboardWriteFunc(text); err != nil {
		logger.Warn("Clipboard unavailable, printing backup instead", "error", err)
	} else {
		res.Copied = true
	}

	if err := openURLFunc(res.URL); err != nil {
		logger.Warn("Failed to open bot URL", "url", res.URL, "error", err)
	} else {
		res.Opened = true
	}

	return res, nil
}
