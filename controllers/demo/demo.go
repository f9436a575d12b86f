package demo

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"moneyticket-demo/config"
	"moneyticket-demo/logger"
	otpService "moneyticket-demo/services/otp"
	"moneyticket-demo/services/session"
	demoTypes "moneyticket-demo/types/demo"
	"moneyticket-demo/utils"
)

// Controller handles the two demo verification endpoints.
type Controller struct {
	Sessions *session.Service
	OTP      *otpService.Service
	Config   config.DemoConfig
}

// NewDemoController wires the demo controller.
func NewDemoController(sessions *session.Service, otp *otpService.Service, cfg config.DemoConfig) *Controller {
	return &Controller{
		Sessions: sessions,
		OTP:      otp,
		Config:   cfg,
	}
}

// SendOTP serves POST /demo/send-otp. Body variant A ({requestDemoAccess:
// true}) issues a demo session; variant B ({phoneNumber, demoToken}) issues
// the fixed demo code.
func (dc *Controller) SendOTP(c *fiber.Ctx) error {
	var req demoTypes.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse send-otp request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "リクエスト形式が正しくありません",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "リクエスト形式が正しくありません",
		})
	}

	clientIP := utils.SanitizeIP(utils.ClientIP(c))
	userAgent := c.Get("User-Agent")

	if req.RequestDemoAccess {
		return dc.handleAccessRequest(c, clientIP, userAgent)
	}

	if req.PhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "電話番号が必要です",
		})
	}
	if req.DemoToken == "" {
		return c.Status(fiber.StatusForbidden).JSON(demoTypes.ErrorResponse{
			Error: "デモアクセストークンが必要です。デモアクセスを要求してください。",
		})
	}

	record, err := dc.OTP.Send(req.PhoneNumber, req.DemoToken, clientIP, userAgent)
	if err != nil {
		return dc.sendError(c, err)
	}

	validFor := fmt.Sprintf("%d分間", int(dc.Config.OTPTimeout.Minutes()))
	return c.Status(fiber.StatusOK).JSON(demoTypes.SendOTPResponse{
		Success: true,
		IsDemo:  true,
		Message: fmt.Sprintf("デモ用認証コードを準備しました。コード: %s", record.OTPCode),
		DemoInstructions: demoTypes.SendInstructions{
			OTPCode:  record.OTPCode,
			ValidFor: validFor,
			Note:     "これはデモ環境です。実際のSMSは送信されません。",
		},
	})
}

func (dc *Controller) handleAccessRequest(c *fiber.Ctx, clientIP, userAgent string) error {
	grant, err := dc.Sessions.RequestAccess(clientIP, userAgent)
	if err != nil {
		if errors.Is(err, session.ErrSessionLimit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(demoTypes.ErrorResponse{
				Error: "デモセッション数の上限に達しました。しばらく待ってからお試しください。",
			})
		}
		logger.Error("Demo session creation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(demoTypes.ErrorResponse{
			Error: "デモセッションの作成に失敗しました",
		})
	}

	return c.Status(fiber.StatusOK).JSON(demoTypes.AccessGrantResponse{
		Success:   true,
		DemoToken: grant.DemoToken,
		Message:   "デモアクセスが承認されました",
		Instructions: demoTypes.AccessInstructions{
			PhoneNumbers:   grant.PhoneNumbers,
			OTPCode:        grant.OTPCode,
			SessionTimeout: grant.SessionTimeout,
		},
	})
}

func (dc *Controller) sendError(c *fiber.Ctx, err error) error {
	var phoneErr *otpService.PhoneNotAllowedError
	switch {
	case errors.Is(err, otpService.ErrInvalidToken):
		return c.Status(fiber.StatusForbidden).JSON(demoTypes.ErrorResponse{
			Error: "デモアクセストークンが無効または期限切れです。新しいデモアクセスを要求してください。",
		})
	case errors.As(err, &phoneErr):
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error:        "デモ用電話番号を使用してください（例: 090-0000-0001）",
			ValidNumbers: phoneErr.ValidNumbers,
		})
	case errors.Is(err, otpService.ErrSMSRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(demoTypes.ErrorResponse{
			Error: "デモ用SMS送信回数の上限に達しました。1分後にお試しください。",
		})
	default:
		logger.Error("Demo OTP send failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(demoTypes.ErrorResponse{
			Error: "デモ用SMS送信に失敗しました",
		})
	}
}

// VerifyOTP serves POST /demo/verify-otp.
func (dc *Controller) VerifyOTP(c *fiber.Ctx) error {
	var req demoTypes.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse verify-otp request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "リクエスト形式が正しくありません",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "リクエスト形式が正しくありません",
		})
	}

	code := req.OTPCode()
	if req.PhoneNumber == "" || code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "電話番号と認証コードが必要です",
		})
	}
	if req.DemoToken == "" {
		return c.Status(fiber.StatusForbidden).JSON(demoTypes.ErrorResponse{
			Error: "デモアクセストークンが必要です",
		})
	}

	clientIP := utils.SanitizeIP(utils.ClientIP(c))
	userAgent := c.Get("User-Agent")

	result, err := dc.OTP.Verify(req.PhoneNumber, utils.SanitizeOTP(code), req.DemoToken, clientIP, userAgent)
	if err != nil {
		return dc.verifyError(c, err)
	}

	var sessionID *string
	if result.DiagnosisSessionID != "" {
		sessionID = &result.DiagnosisSessionID
	}

	return c.Status(fiber.StatusOK).JSON(demoTypes.VerifyOTPResponse{
		Success:   true,
		IsDemo:    true,
		Message:   "デモ用認証が完了しました",
		SessionID: sessionID,
		DemoInfo: demoTypes.DemoInfo{
			PhoneNumber: result.PhoneNumber,
			VerifiedAt:  result.VerifiedAt.Format(time.RFC3339),
			SessionType: "demo",
		},
	})
}

func (dc *Controller) verifyError(c *fiber.Ctx, err error) error {
	var (
		phoneErr    *otpService.PhoneNotAllowedError
		mismatchErr *otpService.MismatchError
	)
	switch {
	case errors.Is(err, otpService.ErrInvalidToken):
		return c.Status(fiber.StatusForbidden).JSON(demoTypes.ErrorResponse{
			Error: "デモアクセストークンが無効または期限切れです",
		})
	case errors.As(err, &phoneErr):
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error:        "デモ用電話番号を使用してください",
			ValidNumbers: phoneErr.ValidNumbers,
		})
	case errors.Is(err, otpService.ErrNoPendingCode):
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "デモ用認証コードが見つかりません。新しいコードを取得してください。",
		})
	case errors.Is(err, otpService.ErrCodeExpired):
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "認証コードの有効期限が切れています。新しいコードを取得してください。",
		})
	case errors.Is(err, otpService.ErrAttemptsExhausted):
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: "デモ用OTP入力回数の上限に達しました。新しいコードを取得してください。",
		})
	case errors.As(err, &mismatchErr):
		return c.Status(fiber.StatusBadRequest).JSON(demoTypes.ErrorResponse{
			Error: fmt.Sprintf("認証コードが正しくありません。残り%d回入力できます。デモ用コード: %s",
				mismatchErr.Remaining, mismatchErr.CorrectCode),
			IsDemo:      true,
			CorrectCode: mismatchErr.CorrectCode,
		})
	default:
		logger.Error("Demo OTP verification failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(demoTypes.ErrorResponse{
			Error: "デモ用OTP検証に失敗しました",
		})
	}
}
