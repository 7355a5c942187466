package service

import (
	"evwarranty_backend/internal/claims/domain"
	"evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/claims/transport"
)

func toClaimResponse(c *repository.Claim) transport.ClaimResponse {
	status, _ := domain.ParseStatus(c.Status)
	resp := transport.ClaimResponse{
		ID:            c.ID,
		ClaimNumber:   c.ClaimNumber,
		Status:        c.Status,
		StatusLabel:   status.Label(),
		CancelState:   c.CancelState,
		VehicleID:     c.VehicleID,
		CustomerName:  c.CustomerName,
		CustomerPhone: c.CustomerPhone,
		CustomerEmail: c.CustomerEmail,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}

	if d := c.Diagnostic; d != nil {
		resp.Diagnostic = &transport.DiagnosticResponse{
			ReportedFailure:    d.ReportedFailure,
			InitialDiagnosis:   d.InitialDiagnosis,
			TechnicalDiagnosis: d.TechnicalDiagnosis,
			ProblemType:        d.ProblemType,
			ProblemDescription: d.ProblemDescription,
			TestResults:        d.TestResults,
			RepairNotes:        d.RepairNotes,
		}
	}
	if cost := c.Cost; cost != nil {
		resp.Cost = &transport.CostResponse{
			WarrantyCostCents:   cost.WarrantyCostCents,
			CompanyPaidCents:    cost.CompanyPaidCents,
			TotalServiceCents:   cost.TotalServiceCents,
			TotalPartsCents:     cost.TotalPartsCents,
			TotalEstimatedCents: cost.TotalEstimatedCents,
			LaborHours:          cost.LaborHours,
		}
	}
	if a := c.Approval; a != nil {
		resp.Approval = &transport.ApprovalResponse{
			ApprovedAt:      a.ApprovedAt,
			RejectedAt:      a.RejectedAt,
			RejectionReason: a.RejectionReason,
			ResubmitCount:   a.ResubmitCount,
			RejectionCount:  a.RejectionCount,
			CanResubmit:     a.CanResubmit,
		}
	}
	if asg := c.Assignment; asg != nil {
		resp.Assignment = &transport.AssignmentResponse{
			TechnicianID: asg.TechnicianID,
			AssignedAt:   asg.AssignedAt,
		}
	}
	if e := c.Eligibility; e != nil {
		resp.Eligibility = &transport.EligibilityResponse{
			Eligible:          e.Eligible,
			AutoCheckResult:   e.AutoCheckResult,
			AutoCheckReasons:  e.AutoCheckReasons,
			CheckedAt:         e.CheckedAt,
			MileageAtCheck:    e.MileageAtCheck,
			ManualOverride:    e.ManualOverride,
			OverrideConfirmed: e.OverrideConfirmed,
		}
	}
	if rc := c.RepairConfig; rc != nil {
		items := make([]transport.ServiceItemResponse, 0, len(rc.ServiceItems))
		for _, item := range rc.ServiceItems {
			items = append(items, transport.ServiceItemResponse{
				Code:           item.Code,
				Description:    item.Description,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
				TotalCents:     item.TotalCents,
			})
		}
		resp.RepairConfig = &transport.RepairConfigResponse{
			RepairType:    rc.RepairType,
			PaymentStatus: rc.PaymentStatus,
			ServiceItems:  items,
		}
	}
	if cn := c.Cancellation; cn != nil {
		resp.Cancellation = &transport.CancellationResponse{
			State:        cn.State,
			RequestCount: cn.RequestCount,
			RequestedAt:  cn.RequestedAt,
			Outcome:      cn.Outcome,
			ResolvedAt:   cn.ResolvedAt,
		}
	}
	return resp
}

func toClaimListResponse(result *repository.ListResult) transport.ClaimListResponse {
	items := make([]transport.ClaimResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toClaimResponse(&result.Items[i]))
	}
	return transport.ClaimListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

func toHistoryResponses(history []repository.StatusHistory) []transport.StatusHistoryResponse {
	out := make([]transport.StatusHistoryResponse, 0, len(history))
	for _, h := range history {
		out = append(out, transport.StatusHistoryResponse{
			StatusCode:  h.StatusCode,
			StatusLabel: h.StatusLabel,
			Note:        h.Note,
			CreatedAt:   h.CreatedAt,
		})
	}
	return out
}
