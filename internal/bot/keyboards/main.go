package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data
const (
	MainMenuData      = "main_menu"
	LogMealData       = "log_meal"
	SummaryData       = "summary"
	StreakData        = "streak"
	ChallengesData    = "challenges"
	RefreshDailyData  = "refresh_daily"
	RefreshWeeklyData = "refresh_weekly"
	TipData           = "tip"
	SwapsData         = "swaps"
	RecommendData     = "recommend"
	AskData           = "ask"
	ConfirmMealData   = "confirm_meal"
	DiscardMealData   = "discard_meal"
	HelpData          = "help"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Log a meal", LogMealData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Summary", SummaryData),
			tgbotapi.NewInlineKeyboardButtonData("🔥 Streak", StreakData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Challenges", ChallengesData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💡 Weekly tip", TipData),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Food swaps", SwapsData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌱 Recommendation", RecommendData),
			tgbotapi.NewInlineKeyboardButtonData("💬 Ask", AskData),
		),
	)
}

// ChallengesMenu offers manual refresh of either challenge
func ChallengesMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 New daily", RefreshDailyData),
			tgbotapi.NewInlineKeyboardButtonData("🔁 New weekly", RefreshWeeklyData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", MainMenuData),
		),
	)
}

// ConfirmMeal asks whether an analysed meal should be logged
func ConfirmMeal() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Log it", ConfirmMealData),
			tgbotapi.NewInlineKeyboardButtonData("❌ Discard", DiscardMealData),
		),
	)
}

// BackToMenu is a single main menu button
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", MainMenuData),
		),
	)
}
