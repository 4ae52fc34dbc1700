package handlers

import (
	"log/slog"
	"sync"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the ledger's enum tags to gin's validator engine.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			slog.Warn("gin binding engine is not go-playground/validator; custom tags not registered")
			return
		}
		mustRegister(v, "account_type", func(fl validator.FieldLevel) bool {
			return domain.AccountType(fl.Field().String()).IsValid()
		})
		mustRegister(v, "account_subtype", func(fl validator.FieldLevel) bool {
			s := domain.AccountSubtype(fl.Field().String())
			for _, t := range []domain.AccountType{domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense} {
				if t.AllowsSubtype(s) {
					return true
				}
			}
			return false
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}
