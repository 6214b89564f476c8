package handlers

import (
	"food-dispatch/internal/domain"
	"food-dispatch/internal/service/dispatch"
	"food-dispatch/internal/service/driver"
)

func orderToResponse(o domain.Order) orderDTO {
	return orderDTO{
		ID:          o.ID,
		Status:      string(o.Status),
		PrepMinutes: o.EffectivePrepMinutes(),
		BranchID:    o.Branch.ID,
		UpdatedAt:   o.UpdatedAt,
	}
}

func deliveryToResponse(d domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:              d.ID,
		OrderID:         d.OrderID,
		ProviderType:    string(d.ProviderType),
		Status:          string(d.Status),
		DriverUserID:    d.DriverUserID,
		TaxiOfficeID:    d.TaxiOfficeID,
		ScheduledMoveAt: d.ScheduledMoveAt,
		ConfirmedAt:     d.ConfirmedAt,
		StartedAt:       d.StartedAt,
		DeliveredAt:     d.DeliveredAt,
	}
}

func deliveriesToResponse(list []domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, deliveryToResponse(d))
	}
	return out
}

func viewToResponse(v dispatch.OrderView) orderViewResponse {
	resp := orderViewResponse{Order: orderToResponse(v.Order)}
	if v.Delivery != nil {
		d := deliveryToResponse(*v.Delivery)
		resp.Delivery = &d
	}
	return resp
}

func presenceToResponse(p domain.DriverPresence) presenceDTO {
	out := presenceDTO{DriverUserID: p.DriverUserID, IsOnline: p.IsOnline, LastSeenAt: p.LastSeenAt}
	if p.LastPosition != nil {
		lat, lng := p.LastPosition.Lat, p.LastPosition.Lng
		out.Lat, out.Lng = &lat, &lng
	}
	return out
}

func contractToResponse(v driver.ContractView) contractDTO {
	return contractDTO{
		ID:             v.Contract.ID,
		Status:         string(v.Contract.Status),
		StartDate:      v.Contract.StartDate,
		EndDate:        v.Contract.EndDate,
		CommissionRate: v.Contract.CommissionRate,
		AutoRenew:      v.Contract.AutoRenew,
		DaysLeft:       v.DaysLeft,
	}
}

func replyToResponse(r domain.ReplyResult) replyResponse {
	return replyResponse{
		OK:        true,
		AttemptID: r.AttemptID,
		Status:    string(r.Status),
		Note:      string(r.Note),
	}
}
