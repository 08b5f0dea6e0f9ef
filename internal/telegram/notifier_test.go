package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/undff/lzt-donate/internal/lzt"
)

func TestFormatPayment(t *testing.T) {
	got := formatPayment(lzt.Payment{
		ID:       "p1",
		Amount:   "50",
		Username: "bob",
		Comment:  "спасибо",
	})

	assert.Contains(t, got, "+50 RUB от <b>bob</b>")
	assert.Contains(t, got, "💬 <code>спасибо</code>")
}

func TestFormatPaymentOmitsEmptyComment(t *testing.T) {
	got := formatPayment(lzt.Payment{Amount: "7", Username: "alice"})

	assert.NotContains(t, got, "<code>")
}

func TestFormatPaymentEscapesDonorText(t *testing.T) {
	got := formatPayment(lzt.Payment{
		Amount:   "10",
		Username: "<b>bob</b>",
		Comment:  "1 < 2 & 3 > 2",
	})

	assert.Contains(t, got, "&lt;b&gt;bob&lt;/b&gt;")
	assert.Contains(t, got, "1 &lt; 2 &amp; 3 &gt; 2")
	assert.NotContains(t, got, "<b>bob</b>")
}
