// Package i18n renders the user-facing quota and purchase messages in
// Vietnamese or English. Vietnamese is the product default; English is kept
// for learners browsing with an English UI.
package i18n

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

const (
	LocaleVI = "vi"
	LocaleEN = "en"
)

var matcher = language.NewMatcher([]language.Tag{
	language.Vietnamese,
	language.English,
})

// Normalize maps an arbitrary locale string onto a supported locale.
// Unparseable or unsupported values fall back to Vietnamese.
func Normalize(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return LocaleVI
	}
	matched, _, _ := matcher.Match(tag)
	if base, _ := matched.Base(); base.String() == "en" {
		return LocaleEN
	}
	return LocaleVI
}

// AdminUnlimited is shown to admin accounts, which are never metered.
func AdminUnlimited(locale string) string {
	if Normalize(locale) == LocaleEN {
		return "Admin account: AI usage is unlimited."
	}
	return "Tài khoản quản trị: không giới hạn lượt dùng AI."
}

// CheckUnavailable is the fail-open message when subscription status cannot
// be verified mid-check.
func CheckUnavailable(locale string) string {
	if Normalize(locale) == LocaleEN {
		return "Could not verify your usage this time, you can keep practicing."
	}
	return "Chưa kiểm tra được hạn mức lần này, bạn vẫn có thể tiếp tục luyện tập."
}

// MonthlyLimitReached denies a subscriber who has exhausted base and top-up credit.
func MonthlyLimitReached(locale string, limit int) string {
	if Normalize(locale) == LocaleEN {
		return fmt.Sprintf("You have used all %d AI turns in your monthly plan. Your allowance resets at the start of next month.", limit)
	}
	return fmt.Sprintf("Bạn đã dùng hết %d lượt AI của gói trong tháng này. Hạn mức sẽ được làm mới vào đầu tháng sau.", limit)
}

// SubscriberRemaining reports how much credit a subscriber still has.
func SubscriberRemaining(locale string, total, base, topup int) string {
	if Normalize(locale) == LocaleEN {
		return fmt.Sprintf("You have %d AI turns left (%d from your plan, %d top-up credits).", total, base, topup)
	}
	return fmt.Sprintf("Bạn còn %d lượt AI (%d lượt từ gói, %d lượt mua thêm).", total, base, topup)
}

// SubscriberRemainingWarning is SubscriberRemaining with a running-low notice.
func SubscriberRemainingWarning(locale string, total, base, topup int) string {
	if Normalize(locale) == LocaleEN {
		return fmt.Sprintf("Heads up: your plan is running low. %d AI turns left (%d from your plan, %d top-up credits).", total, base, topup)
	}
	return fmt.Sprintf("Lưu ý: gói của bạn sắp hết. Còn %d lượt AI (%d lượt từ gói, %d lượt mua thêm).", total, base, topup)
}

// FreeRemaining reports a free user's remaining daily allowance for a feature.
func FreeRemaining(locale string, left int) string {
	if Normalize(locale) == LocaleEN {
		return fmt.Sprintf("You have %d free turns left for this skill today.", left)
	}
	return fmt.Sprintf("Bạn còn %d lượt miễn phí cho kỹ năng này hôm nay.", left)
}

// TopupFunded tells a free user past the daily cap that top-up credit covers the call.
func TopupFunded(locale string, balance int) string {
	if Normalize(locale) == LocaleEN {
		return fmt.Sprintf("Daily free turns are used up; this turn uses your top-up credits (%d left).", balance)
	}
	return fmt.Sprintf("Lượt miễn phí hôm nay đã hết; lượt này dùng credit mua thêm (còn %d).", balance)
}

// FreeLimitReached denies a free user with no top-up credit left.
func FreeLimitReached(locale string, limit int) string {
	if Normalize(locale) == LocaleEN {
		return fmt.Sprintf("You have used all %d free turns for this skill today. Come back tomorrow or buy top-up credits.", limit)
	}
	return fmt.Sprintf("Bạn đã dùng hết %d lượt miễn phí cho kỹ năng này hôm nay. Hãy quay lại ngày mai hoặc mua thêm credit.", limit)
}

// PurchaseSuccess confirms an issued top-up lot with its expiry date.
func PurchaseSuccess(locale string, amount int, expires time.Time) string {
	if Normalize(locale) == LocaleEN {
		return fmt.Sprintf("Added %d AI credits, valid until %s.", amount, expires.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("Đã cộng %d lượt AI, sử dụng đến hết ngày %s.", amount, expires.Format("02/01/2006"))
}

// PurchaseFailed is shown when the lot could not be issued.
func PurchaseFailed(locale string) string {
	if Normalize(locale) == LocaleEN {
		return "Purchase failed, you have not been charged. Please try again."
	}
	return "Mua thêm không thành công, bạn chưa bị trừ tiền. Vui lòng thử lại."
}
