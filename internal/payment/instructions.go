package payment

import (
	"strconv"
	"strings"

	"marketplace-be/internal/order"
)

var instructionMap = map[string]map[order.PaymentMethod][]string{
	"vi": {
		order.PaymentCOD: {
			"Đơn hàng sẽ được giao tới địa chỉ của bạn",
			"Chuẩn bị {{amount}} tiền mặt khi nhận hàng",
			"Thanh toán trực tiếp cho nhân viên giao hàng",
			"Giữ lại biên nhận cho đơn {{invoice}}",
		},
		order.PaymentBankTransfer: {
			"Mở ứng dụng ngân hàng hoặc Internet Banking",
			"Chuyển khoản {{amount}} tới tài khoản của cửa hàng",
			"Ghi nội dung chuyển khoản: {{invoice}}",
			"Đơn hàng được xác nhận sau khi nhận được thanh toán",
		},
		order.PaymentEWallet: {
			"Mở ứng dụng ví điện tử (MoMo, ZaloPay, ...)",
			"Quét mã QR hoặc chọn thanh toán hóa đơn {{invoice}}",
			"Kiểm tra số tiền {{amount}} và xác nhận",
		},
	},
	"en": {
		order.PaymentCOD: {
			"Your order will be delivered to your address",
			"Prepare {{amount}} in cash for the courier",
			"Pay the courier directly on delivery",
			"Keep the receipt for order {{invoice}}",
		},
		order.PaymentBankTransfer: {
			"Open your banking app or internet banking",
			"Transfer {{amount}} to the shop's account",
			"Use {{invoice}} as the transfer reference",
			"The order is confirmed once the payment arrives",
		},
		order.PaymentEWallet: {
			"Open your e-wallet app (MoMo, ZaloPay, ...)",
			"Scan the QR code or pay invoice {{invoice}}",
			"Check the amount {{amount}} and confirm",
		},
	},
}

var fallback = map[string][]string{
	"vi": {"Làm theo hướng dẫn thanh toán trên trang này"},
	"en": {"Follow the payment instructions on this page"},
}

// GetInstructions returns the payment steps for a method in lang, falling
// back to Vietnamese.
func GetInstructions(method order.PaymentMethod, lang string) []string {
	byMethod, ok := instructionMap[lang]
	if !ok {
		lang = "vi"
		byMethod = instructionMap[lang]
	}
	if steps, ok := byMethod[method]; ok {
		return steps
	}
	return fallback[lang]
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}

// ForOrder renders the steps for paying o.
func ForOrder(o order.Order, lang string) []string {
	return InjectVariables(GetInstructions(o.PaymentMethod, lang), InstructionVars{
		"amount":  FormatVND(o.Total),
		"invoice": o.InvoiceNo,
	})
}

// FormatVND renders an amount the way prices are shown, e.g. "1.250.000đ".
func FormatVND(amount float64) string {
	digits := strconv.FormatInt(int64(amount+0.5), 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String() + "đ"
	}
	return b.String() + "đ"
}
