package domain

import "fmt"

// RepairType determines who bears the repair cost: EVM_REPAIR is funded by the
// manufacturer after approval, SC_REPAIR by the service center or customer.
type RepairType string

const (
	RepairTypeEVM RepairType = "EVM_REPAIR"
	RepairTypeSC  RepairType = "SC_REPAIR"
)

// ParseRepairType converts a persisted repair type code.
func ParseRepairType(code string) (RepairType, error) {
	switch t := RepairType(code); t {
	case RepairTypeEVM, RepairTypeSC:
		return t, nil
	default:
		return "", fmt.Errorf("unknown repair type code %q", code)
	}
}

// PaymentStatus tracks the customer's payment on SC-funded repairs.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentInvoiced PaymentStatus = "INVOICED"
	PaymentPaid     PaymentStatus = "PAID"
)

// ParsePaymentStatus converts a persisted payment status code.
func ParsePaymentStatus(code string) (PaymentStatus, error) {
	switch p := PaymentStatus(code); p {
	case PaymentUnpaid, PaymentInvoiced, PaymentPaid:
		return p, nil
	default:
		return "", fmt.Errorf("unknown payment status code %q", code)
	}
}

// InspectionOutcome is the result of the pre-handover inspection.
type InspectionOutcome string

const (
	InspectionPassed InspectionOutcome = "PASSED"
	InspectionFailed InspectionOutcome = "FAILED"
)

// InspectionTarget resolves the status performInspection produces.
func InspectionTarget(outcome InspectionOutcome) (ClaimStatus, error) {
	switch outcome {
	case InspectionPassed:
		return StatusReadyForHandover, nil
	case InspectionFailed:
		return StatusRepairInProgress, nil
	default:
		return "", fmt.Errorf("unknown inspection outcome %q", outcome)
	}
}
