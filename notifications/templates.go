package notifications

import (
	"fmt"
	"html"

	"github.com/darlington872/lastman55444-sub000/models"
)

func PaymentDecisionEmail(user models.User, payment models.Payment) (subject, body string) {
	switch payment.Status {
	case models.PaymentStatusCompleted:
		subject = "Your payment has been approved"
		if payment.OrderID == nil {
			body = fmt.Sprintf("<h1>Payment approved</h1><p>Hi %s,</p><p>Your %s payment of %s has been verified and credited to your balance.</p>",
				html.EscapeString(user.FullName), html.EscapeString(payment.Method), payment.Amount.StringFixed(2))
		} else {
			body = fmt.Sprintf("<h1>Payment approved</h1><p>Hi %s,</p><p>Your %s payment of %s for order %s has been verified.</p>",
				html.EscapeString(user.FullName), html.EscapeString(payment.Method), payment.Amount.StringFixed(2), payment.OrderID)
		}
	case models.PaymentStatusRejected:
		subject = "Your payment could not be verified"
		body = fmt.Sprintf("<h1>Payment rejected</h1><p>Hi %s,</p><p>We could not verify your %s payment of %s. Contact support if you believe this is a mistake.</p>",
			html.EscapeString(user.FullName), html.EscapeString(payment.Method), payment.Amount.StringFixed(2))
	}
	return subject, body
}

func KycDecisionEmail(user models.User, kyc models.Kyc) (subject, body string) {
	switch kyc.Status {
	case models.KycStatusApproved:
		subject = "Your identity has been verified"
		body = fmt.Sprintf("<h1>KYC approved</h1><p>Hi %s,</p><p>Your documents have been approved. You can now claim referral rewards.</p>",
			html.EscapeString(user.FullName))
	case models.KycStatusRejected:
		notes := "No reason was given."
		if kyc.AdminNotes != nil && *kyc.AdminNotes != "" {
			notes = *kyc.AdminNotes
		}
		subject = "Your KYC submission was rejected"
		body = fmt.Sprintf("<h1>KYC rejected</h1><p>Hi %s,</p><p>%s</p><p>You can submit new documents from your dashboard.</p>",
			html.EscapeString(user.FullName), html.EscapeString(notes))
	}
	return subject, body
}

func OrderCompletedEmail(user models.User, order models.Order) (subject, body string) {
	number := ""
	if order.PhoneNumber != nil {
		number = order.PhoneNumber.Number
	}
	code := "Your number is ready."
	if order.Code != nil && *order.Code != "" {
		code = fmt.Sprintf("Your verification code is <b>%s</b>.", html.EscapeString(*order.Code))
	}
	subject = "Your order is complete"
	body = fmt.Sprintf("<h1>Order complete</h1><p>Hi %s,</p><p>Order %s for %s has been fulfilled. %s</p>",
		html.EscapeString(user.FullName), order.ID, html.EscapeString(number), code)
	return subject, body
}

func PendingReviewDigestEmail(pendingPayments, pendingKyc int64) (subject, body string) {
	subject = fmt.Sprintf("Pending reviews: %d payments, %d KYC", pendingPayments, pendingKyc)
	body = fmt.Sprintf("<h1>Pending reviews</h1><ul><li>%d payments awaiting verification</li><li>%d KYC submissions awaiting review</li></ul>",
		pendingPayments, pendingKyc)
	return subject, body
}
