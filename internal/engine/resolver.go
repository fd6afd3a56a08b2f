package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/worldtax/internal/model"
)

// Resolve turns a classification and the scenario's attributes into one
// concrete calculation policy. It never fails: inputs that match no
// configured rule degrade to destination treatment. There is no implicit
// reverse charge or zero rating outside a configured agreement.
func Resolve(c Classification, scenario *model.TaxScenario, amount decimal.Decimal) model.Policy {
	rule := selectRule(c, scenario.TransactionType)
	if rule == nil {
		return model.PolicyDestination
	}
	return dispatch(rule, scenario, amount)
}

// selectRule picks the agreement rule slot for the classification. The
// export slot applies regardless of B2B/B2C.
func selectRule(c Classification, transactionType model.TransactionType) *model.TaxRule {
	switch c.Kind {
	case ClassNoAgreement:
		return nil
	case ClassExternalExport:
		return c.Agreement.Rules.ExternalExport
	case ClassInternal:
		if transactionType == model.TransactionB2B {
			return c.Agreement.Rules.InternalB2B
		}
		return c.Agreement.Rules.InternalB2C
	}
	return nil
}

func dispatch(rule *model.TaxRule, scenario *model.TaxScenario, amount decimal.Decimal) model.Policy {
	switch rule.Type {
	case model.RuleOrigin:
		return model.PolicyOrigin
	case model.RuleDestination:
		return model.PolicyDestination
	case model.RuleReverseCharge:
		return model.PolicyReverseCharge
	case model.RuleZeroRated:
		return model.PolicyZeroRated
	case model.RuleExempt:
		// Conditional exemptions fall back to charging the buyer when the
		// condition is not met.
		if rule.RequiresResaleCertificate && !scenario.HasResaleCertificate {
			return model.PolicyDestination
		}
		if rule.RequiresRegistration && scenario.TransactionType != model.TransactionB2B {
			return model.PolicyDestination
		}
		return model.PolicyExempt
	case model.RuleThresholdBased:
		branch := rule.ThresholdBranch(amount, scenario.IsDigitalProductOrService, scenario.IgnoreThreshold)
		return dispatch(&model.TaxRule{Type: branch}, scenario, amount)
	}
	return model.PolicyDestination
}
