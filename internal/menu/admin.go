package menu

import (
	"fmt"
	"strings"

	"github.com/set-night/earnhub/internal/callback"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/telegram"
)

func backToAdmin() row {
	return telegram.ButtonRow(button("⬅️ Admin Panel", callback.KindAdmin))
}

func AdminDashboard(st domain.Stats) telegram.Screen {
	text := fmt.Sprintf("🛠 *Admin Panel*\n\n"+
		"👥 Users: %d\n🔗 Referrals: %d\n📋 Tasks: %d\n💼 Opportunities: %d\n⏳ Pending transactions: %d",
		st.Users, st.Referrals, st.Tasks, st.Opportunities, st.PendingTransactions)

	return telegram.Screen{
		Text: text,
		Keyboard: telegram.InlineKeyboard(
			telegram.ButtonRow(button("📋 Tasks", callback.KindAdminTasks), button("💼 Opportunities", callback.KindAdminOpportunities)),
			telegram.ButtonRow(button("⚙️ Settings", callback.KindAdminSettings), button("⏳ Transactions", callback.KindAdminTransactions)),
			backToMain(),
		),
	}
}

func AdminTasks(tasks []*domain.Task) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("📋 *Manage Tasks*\n\n")
	if len(tasks) == 0 {
		sb.WriteString("No tasks yet.")
	}

	rows := make([]row, 0, len(tasks)+2)
	for _, t := range tasks {
		fmt.Fprintf(&sb, "#%d *%s* - %d points (%s)\n", t.ID, esc(t.Name), t.Points, esc(t.ChannelID))
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton("✏️ "+t.Name, callback.WithID(callback.KindEditTask, t.ID)),
			telegram.InlineButton("🗑", callback.WithID(callback.KindDeleteTask, t.ID)),
		))
	}
	rows = append(rows, telegram.ButtonRow(button("➕ Add Task", callback.KindAdminAddTask)), backToAdmin())

	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...)}
}

// AdminTask shows one task with a button per editable field.
func AdminTask(t *domain.Task) telegram.Screen {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *Task #%d*\n\n", t.ID)
	rows := make([]row, 0, len(domain.TaskFields)+2)
	for _, f := range domain.TaskFields {
		fmt.Fprintf(&sb, "*%s:* %s\n", f.Label, esc(t.Field(domain.TaskField(f.Name))))
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton("Edit "+f.Label, callback.WithField(callback.KindEditTaskField, t.ID, f.Name)),
		))
	}
	rows = append(rows,
		telegram.ButtonRow(telegram.InlineButton("🗑 Delete", callback.WithID(callback.KindDeleteTask, t.ID))),
		telegram.ButtonRow(button("⬅️ Tasks", callback.KindAdminTasks)),
	)
	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...), NoPreview: true}
}

func AdminOpportunities(opps []*domain.Opportunity) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("💼 *Manage Opportunities*\n\n")
	if len(opps) == 0 {
		sb.WriteString("No opportunities yet.")
	}

	rows := make([]row, 0, len(opps)+2)
	for _, o := range opps {
		fmt.Fprintf(&sb, "#%d *%s* (%s)\n", o.ID, esc(o.Name), o.Currency)
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton("✏️ "+o.Name, callback.WithID(callback.KindEditOpportunity, o.ID)),
			telegram.InlineButton("🗑", callback.WithID(callback.KindDeleteOpportunity, o.ID)),
		))
	}
	rows = append(rows, telegram.ButtonRow(button("➕ Add Opportunity", callback.KindAdminAddOpportunity)), backToAdmin())

	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...)}
}

func AdminOpportunity(o *domain.Opportunity) telegram.Screen {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 *Opportunity #%d*\n\n", o.ID)
	rows := make([]row, 0, len(domain.OpportunityFields)+2)
	for _, f := range domain.OpportunityFields {
		v := o.Field(domain.OpportunityField(f.Name))
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&sb, "*%s:* %s\n", f.Label, esc(v))
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton("Edit "+f.Label, callback.WithField(callback.KindEditOpportunityField, o.ID, f.Name)),
		))
	}
	rows = append(rows,
		telegram.ButtonRow(telegram.InlineButton("🗑 Delete", callback.WithID(callback.KindDeleteOpportunity, o.ID))),
		telegram.ButtonRow(button("⬅️ Opportunities", callback.KindAdminOpportunities)),
	)
	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...), NoPreview: true}
}

// ConfirmDelete asks before deleting a task or an opportunity.
func ConfirmDelete(what string, confirm callback.Kind, back callback.Kind, id int64) telegram.Screen {
	return telegram.Screen{
		Text: fmt.Sprintf("⚠️ Delete %s #%d? This cannot be undone.", what, id),
		Keyboard: telegram.InlineKeyboard(telegram.ButtonRow(
			telegram.InlineButton("Yes, delete", callback.WithID(confirm, id)),
			button("Cancel", back),
		)),
	}
}

func AdminSettings(st domain.BotSettings) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("⚙️ *Settings*\n\n")
	rows := make([]row, 0, len(domain.SettingSpecs)+1)
	for _, spec := range domain.SettingSpecs {
		v := st.Value(spec.Path)
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&sb, "*%s:* %s\n", spec.Label, esc(v))
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton("Edit "+spec.Label, callback.WithField(callback.KindEditSetting, 0, spec.Path)),
		))
	}
	rows = append(rows, backToAdmin())
	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...), NoPreview: true}
}

// AdminTransactions lists one zero-based page of pending transactions.
func AdminTransactions(txs []*domain.Transaction, page int, totalPending int64) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("⏳ *Pending Transactions*\n\n")
	if len(txs) == 0 {
		sb.WriteString("Nothing to settle.")
	}

	rows := make([]row, 0, len(txs)+2)
	for _, t := range txs {
		amount := "amount on settle"
		if t.Type == domain.TxTypeWithdrawal {
			amount = t.Amount.String() + " " + t.Currency
		}
		fmt.Fprintf(&sb, "#%d %s %s · user `%d` · %s · %s\n",
			t.ID, t.Type, t.Currency, t.UserID, amount, t.CreatedAt.Format("2006-01-02 15:04"))
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(fmt.Sprintf("✅ Settle #%d", t.ID), callback.WithID(callback.KindSettleTx, t.ID)),
		))
	}

	perPage := int64(config.PendingTransactionsPerPage)
	if pages := int((totalPending + perPage - 1) / perPage); pages > 1 {
		rows = append(rows, telegram.PaginationRow(page, pages, func(p int) string {
			return callback.WithID(callback.KindAdminTransactionsPage, int64(p)+1)
		}, callback.Data(callback.KindNoop)))
	}
	rows = append(rows, backToAdmin())

	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...)}
}

// FormPrompt shows a conversation prompt with a cancel button.
func FormPrompt(prompt string) telegram.Screen {
	return telegram.Screen{
		Text:     prompt,
		Keyboard: telegram.InlineKeyboard(telegram.ButtonRow(button("✖️ Cancel", callback.KindCancel))),
	}
}
