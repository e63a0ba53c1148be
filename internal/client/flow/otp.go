package flow

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/yogayukt/internal/client/validation"
)

type otpBox [validation.OTPLength]string

func (b *otpBox) complete() bool {
	for _, d := range b {
		if d == "" {
			return false
		}
	}
	return true
}

func (b *otpBox) slice() []string {
	return append([]string(nil), b[:]...)
}

func (b *otpBox) reset() {
	*b = otpBox{}
}

// EnterOTPDigit puts s into slot i of the verification code. s must be
// empty (to clear the slot) or a single character. It reports whether the
// code is complete afterwards. Outside the verification screen, or with an
// out of range slot, nothing happens and it returns false.
func (c *Controller) EnterOTPDigit(i int, s string) bool {
	s = strings.TrimSpace(s)

	c.mu.Lock()
	if c.state != StateOTPVerify || i < 0 || i >= validation.OTPLength || utf8.RuneCountInString(s) > 1 {
		c.mu.Unlock()
		return false
	}
	c.otp[i] = s
	c.fieldErrs = nil
	complete := c.otp.complete()
	c.mu.Unlock()

	c.notify()
	return complete
}

// SetOTP fills the code from a pasted string, one character per slot.
// Extra characters are dropped and missing ones leave slots empty.
func (c *Controller) SetOTP(code string) bool {
	code = strings.TrimSpace(code)

	c.mu.Lock()
	if c.state != StateOTPVerify {
		c.mu.Unlock()
		return false
	}
	c.otp.reset()
	i := 0
	for _, r := range code {
		if i == validation.OTPLength {
			break
		}
		c.otp[i] = string(r)
		i++
	}
	c.fieldErrs = nil
	complete := c.otp.complete()
	c.mu.Unlock()

	c.notify()
	return complete
}

// OTPComplete reports whether every slot holds a character.
func (c *Controller) OTPComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.otp.complete()
}
