// Package menu renders every bot screen. Renderers are pure: they take
// domain values and return the text and keyboard to send.
package menu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/callback"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/telegram"
)

type (
	row      = []models.InlineKeyboardButton
	keyboard = *models.InlineKeyboardMarkup
)

var esc = telegram.EscapeMarkdown

func button(text string, kind callback.Kind) models.InlineKeyboardButton {
	return telegram.InlineButton(text, callback.Data(kind))
}

func backToMain() row {
	return telegram.ButtonRow(button("Back to Main Menu", callback.KindMainMenu))
}

// BackKeyboard is the single "Back to Main Menu" keyboard.
func BackKeyboard() keyboard {
	return telegram.InlineKeyboard(backToMain())
}

// Welcome asks a user to join the required channel before continuing.
func Welcome(st domain.BotSettings) telegram.Screen {
	text := fmt.Sprintf("👋 Welcome to EarnHub Bot!\n\n"+
		"To get started, please join our official channel:\n👉 %s\n\n"+
		"Once you've joined, click \"Verify\" below to continue.", esc(st.ChannelLink))

	rows := []row{}
	if st.ChannelLink != "" {
		rows = append(rows, telegram.ButtonRow(telegram.URLButton("Join Channel", st.ChannelLink)))
	}
	rows = append(rows, telegram.ButtonRow(button("Verify", callback.KindJoinVerify)))

	return telegram.Screen{
		Text:      text,
		PhotoURL:  st.WelcomeLogo,
		Keyboard:  telegram.InlineKeyboard(rows...),
		NoPreview: true,
	}
}

// MainMenu lists the sections; admins also get the admin panel entry.
func MainMenu(isAdmin bool) telegram.Screen {
	rows := []row{
		telegram.ButtonRow(button("Home", callback.KindHome)),
		telegram.ButtonRow(button("Tasks", callback.KindTasks)),
		telegram.ButtonRow(button("Refer and Earn", callback.KindRefer)),
		telegram.ButtonRow(button("Withdrawal", callback.KindWithdrawalSetup)),
		telegram.ButtonRow(button("Earn", callback.KindEarn)),
	}
	if isAdmin {
		rows = append(rows, telegram.ButtonRow(button("🛠 Admin Panel", callback.KindAdmin)))
	}
	return telegram.Screen{
		Text:     "🎉 *Main Menu*\nSelect an option below:",
		Keyboard: telegram.InlineKeyboard(rows...),
	}
}

// Home shows balances and the configured ad.
func Home(user *domain.User, st domain.BotSettings) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("🏠 *Home Page*\n\n")
	fmt.Fprintf(&sb, "💰 *Your Current Balance:* %d points\n", user.Balance)

	if len(user.CryptoBalances) > 0 {
		currencies := make([]string, 0, len(user.CryptoBalances))
		for cur := range user.CryptoBalances {
			currencies = append(currencies, cur)
		}
		sort.Strings(currencies)
		sb.WriteString("\n🪙 *Crypto Balances:*\n")
		for _, cur := range currencies {
			fmt.Fprintf(&sb, "• %s %s\n", user.CryptoBalances[cur].String(), cur)
		}
	}

	rows := []row{}
	if st.Ad.Text != "" {
		fmt.Fprintf(&sb, "\n📢 %s\n", esc(st.Ad.Text))
	} else {
		sb.WriteString("\n📢 *Promote Your Ad!* Click below to view our ad channel for more info.\n")
	}
	adLink := st.Ad.Link
	if adLink == "" {
		adLink = st.ChannelLink
	}
	if adLink != "" {
		rows = append(rows, telegram.ButtonRow(telegram.URLButton("Visit Ad Channel", adLink)))
	}
	rows = append(rows, backToMain())

	return telegram.Screen{
		Text:     sb.String(),
		PhotoURL: st.HomeLogo,
		Keyboard: telegram.InlineKeyboard(rows...),
	}
}

// Tasks lists every task; completed ones are marked and lose their verify button.
func Tasks(tasks []*domain.Task, user *domain.User) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("📋 *Tasks*\n\n")

	if len(tasks) == 0 {
		sb.WriteString("No tasks are available right now. Check back later!")
		return telegram.Screen{Text: sb.String(), Keyboard: BackKeyboard()}
	}

	sb.WriteString("Complete the following tasks to earn points:\n\n")
	rows := make([]row, 0, len(tasks)+1)
	for _, t := range tasks {
		mark := "🔹"
		if user.HasCompleted(t.ID) {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s *%s* - Earn %d points\n👉 *Description*: %s\n\n", mark, esc(t.Name), t.Points, esc(t.Description))

		if user.HasCompleted(t.ID) {
			continue
		}
		r := telegram.ButtonRow()
		if url := t.ChannelURL(); url != "" {
			r = append(r, telegram.URLButton("Join "+t.Name, url))
		}
		r = append(r, telegram.InlineButton("Verify "+t.Name, callback.WithID(callback.KindClaimTask, t.ID)))
		rows = append(rows, r)
	}
	sb.WriteString("After joining, click the corresponding 'Verify' button below to claim your points.")
	rows = append(rows, backToMain())

	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...), NoPreview: true}
}

// TaskResult wraps a claim outcome with navigation back to the task list.
func TaskResult(text string) telegram.Screen {
	return telegram.Screen{
		Text: text,
		Keyboard: telegram.InlineKeyboard(
			telegram.ButtonRow(button("Back to Task List", callback.KindTasks)),
			telegram.ButtonRow(button("Main Menu", callback.KindMainMenu)),
		),
	}
}

// Refer shows the user's referral link and count.
func Refer(link string, referrals int, points int64) telegram.Screen {
	text := fmt.Sprintf("🔗 *Refer and Earn*\n\n"+
		"Share your unique referral link to earn %d points for every new user who joins:\n"+
		"`%s`  👈 Copy this link and share it!\n\n"+
		"Total Referrals: %d", points, link, referrals)
	return telegram.Screen{Text: text, Keyboard: BackKeyboard(), NoPreview: true}
}
