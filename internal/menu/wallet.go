package menu

import (
	"fmt"
	"strings"

	"github.com/set-night/earnhub/internal/callback"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/telegram"
	"github.com/shopspring/decimal"
)

var withdrawalFields = []domain.WithdrawalField{
	domain.WithdrawalExchangeID,
	domain.WithdrawalCryptoAddress,
	domain.WithdrawalBankDetails,
}

func WithdrawalSetup() telegram.Screen {
	text := "💸 *Withdrawal Setup*\n\n" +
		"Please select the type of detail you want to add or update:\n" +
		"1️⃣ Exchange ID\n2️⃣ Crypto Address\n3️⃣ Bank Details\n\n" +
		"Select an option below to continue, or view your saved details."

	rows := make([]row, 0, len(withdrawalFields)+2)
	for _, f := range withdrawalFields {
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(f.Label(), callback.WithField(callback.KindSetWithdrawal, 0, string(f))),
		))
	}
	rows = append(rows,
		telegram.ButtonRow(button("View Withdrawal Details", callback.KindWithdrawalDetails)),
		backToMain(),
	)
	return telegram.Screen{Text: text, Keyboard: telegram.InlineKeyboard(rows...)}
}

func WithdrawalDetails(user *domain.User) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("📄 *Your Withdrawal Details*\n\n")
	for _, f := range withdrawalFields {
		v := user.Withdrawal.Get(f)
		if v == "" {
			v = "Not Set"
		}
		fmt.Fprintf(&sb, "- *%s*: %s\n", f.Label(), esc(v))
	}
	sb.WriteString("\nYou can update any of these details from the options below.")

	return telegram.Screen{
		Text: sb.String(),
		Keyboard: telegram.InlineKeyboard(
			telegram.ButtonRow(button("Back to Withdrawal Setup", callback.KindWithdrawalSetup)),
		),
	}
}

// WithdrawalDetailSaved confirms a saved slot and offers the setup menu again.
func WithdrawalDetailSaved(field domain.WithdrawalField) telegram.Screen {
	s := WithdrawalSetup()
	s.Text = fmt.Sprintf("%s saved! Select another option or return to the main menu.\n\n%s", field.Label(), s.Text)
	return s
}

// Earn lists the opportunities with deposit and withdraw buttons.
func Earn(opps []*domain.Opportunity) telegram.Screen {
	var sb strings.Builder
	sb.WriteString("💰 *Earning Opportunities*\n\n")

	if len(opps) == 0 {
		sb.WriteString("No opportunities are available right now. Check back later!")
		return telegram.Screen{Text: sb.String(), Keyboard: BackKeyboard()}
	}

	sb.WriteString("Here are some ways you can earn with us:\n\n")
	rows := make([]row, 0, 2*len(opps)+1)
	for i, o := range opps {
		fmt.Fprintf(&sb, "%d. *%s* (%s) - %s\n", i+1, esc(o.Name), o.Currency, esc(o.Description))
		rows = append(rows,
			telegram.ButtonRow(telegram.InlineButton("Deposit to "+o.Name, callback.WithID(callback.KindDeposit, o.ID))),
			telegram.ButtonRow(telegram.InlineButton("Withdraw from "+o.Name, callback.WithID(callback.KindWithdraw, o.ID))),
		)
	}
	sb.WriteString("\nSelect an option below to deposit or withdraw.")
	rows = append(rows, backToMain())

	return telegram.Screen{Text: sb.String(), Keyboard: telegram.InlineKeyboard(rows...)}
}

func backToEarn() row {
	return telegram.ButtonRow(button("Back to Earn Section", callback.KindEarn))
}

// Deposit shows where to send funds. memo identifies the depositor; qr is a
// generated QR image used when the opportunity has no QR link of its own.
func Deposit(o *domain.Opportunity, memo string, qr []byte) telegram.Screen {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏦 *Deposit to %s*\n\n", esc(o.Name))
	sb.WriteString("Send your deposit to the address below:\n")
	fmt.Fprintf(&sb, "- Address: `%s`\n", o.Address)
	fmt.Fprintf(&sb, "- Memo: `%s` (Use this memo to identify your deposit)\n", memo)
	fmt.Fprintf(&sb, "- Currency: %s\n", o.Currency)
	if o.MinDeposit.IsPositive() {
		fmt.Fprintf(&sb, "- Minimum deposit: %s %s\n", o.MinDeposit.String(), o.Currency)
	}
	if o.ProcessingTime != "" {
		fmt.Fprintf(&sb, "- Processing time: %s\n", esc(o.ProcessingTime))
	}
	sb.WriteString("\nOnce sent, please let us know by clicking \"Confirm Deposit.\"")

	s := telegram.Screen{
		Text: sb.String(),
		Keyboard: telegram.InlineKeyboard(
			telegram.ButtonRow(telegram.InlineButton("Confirm Deposit", callback.WithID(callback.KindConfirmDeposit, o.ID))),
			backToEarn(),
		),
	}
	if o.QRCodeURL != "" {
		s.PhotoURL = o.QRCodeURL
	} else {
		s.PhotoPNG = qr
	}
	return s
}

// DepositConfirmed acknowledges the pending deposit t recorded on
// confirmation.
func DepositConfirmed(o *domain.Opportunity, t *domain.Transaction) telegram.Screen {
	text := "✅ Your deposit has been confirmed. Thank you!"
	if o.ConfirmationMessage != "" {
		text = "✅ " + esc(o.ConfirmationMessage)
	}
	text += fmt.Sprintf("\n\nRequest #%d, reference `%s`. Your balance is credited once the funds arrive.", t.ID, t.Reference)
	return telegram.Screen{Text: text, Keyboard: telegram.InlineKeyboard(backToEarn(), backToMain())}
}

// WithdrawPrompt asks to confirm withdrawing the whole available balance.
func WithdrawPrompt(o *domain.Opportunity, available decimal.Decimal) telegram.Screen {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💸 *Withdrawal Request for %s*\n\n", esc(o.Name))
	fmt.Fprintf(&sb, "Available: %s %s\n", available.String(), o.Currency)
	if o.MinWithdrawal.IsPositive() {
		fmt.Fprintf(&sb, "Minimum withdrawal: %s %s\n", o.MinWithdrawal.String(), o.Currency)
	}
	sb.WriteString("\nYour current balance will be processed for withdrawal.\n")
	if o.ProcessingTime != "" {
		fmt.Fprintf(&sb, "Withdrawals are processed within %s.\n", esc(o.ProcessingTime))
	} else {
		sb.WriteString("Withdrawals are processed weekly.\n")
	}
	sb.WriteString("\nClick \"Confirm Withdrawal\" to proceed.")

	return telegram.Screen{
		Text: sb.String(),
		Keyboard: telegram.InlineKeyboard(
			telegram.ButtonRow(telegram.InlineButton("Confirm Withdrawal", callback.WithID(callback.KindConfirmWithdraw, o.ID))),
			backToEarn(),
		),
	}
}

func WithdrawalSubmitted(o *domain.Opportunity, t *domain.Transaction) telegram.Screen {
	when := "within a week"
	if o.ProcessingTime != "" {
		when = "within " + esc(o.ProcessingTime)
	}
	text := fmt.Sprintf("✅ Your withdrawal request for %s %s has been submitted. It will be processed %s.\nReference: `%s`",
		t.Amount.String(), t.Currency, when, t.Reference)
	return telegram.Screen{Text: text, Keyboard: telegram.InlineKeyboard(backToEarn(), backToMain())}
}

func InsufficientBalance(o *domain.Opportunity, available decimal.Decimal) telegram.Screen {
	text := fmt.Sprintf("🚫 Insufficient %s balance. Available: %s, minimum withdrawal: %s.",
		o.Currency, available.String(), o.MinWithdrawal.String())
	return telegram.Screen{Text: text, Keyboard: telegram.InlineKeyboard(backToEarn(), backToMain())}
}
