package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/keyboards"
)

// Sender is the part of the Telegram API menus need
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const mainMenuText = `🌍 *Footprint Helper* keeps track of the climate impact of your meals

🍽️ Send a photo or describe a meal and I will:
• Estimate its footprint in kg CO2e
• Keep your logging streak
• Track your daily and weekly challenges

Choose an action:`

const helpText = `Available commands:
/start - Show the main menu
/log <food qty, ...> - Log a meal, e.g. /log rice 200g, lentils 150g
/summary - Last 7 days
/streak - Your logging streak
/challenges - Today's and this week's challenges
/refresh - New challenges
/tip - Weekly tip
/swaps - Lower-footprint swaps
/recommend - Overall recommendation
/ask <question> - Ask about your diet's footprint
/reset - Forget all your meals

You can also send a photo of a meal, optionally with a caption describing it.`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, mainMenuText)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendHelp sends the command reference
func SendHelp(api Sender, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

// SendText sends plain text with an optional keyboard
func SendText(api Sender, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := api.Send(msg)
	return err
}
