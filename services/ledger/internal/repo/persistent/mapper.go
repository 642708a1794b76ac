package persistent

import (
	"soundstage/pkg/models"
	"soundstage/services/ledger/internal/entity"
)

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	roles := make([]entity.Role, 0, len(m.Roles))
	for _, r := range m.Roles {
		if r.IsActive {
			roles = append(roles, entity.Role(r.Role))
		}
	}

	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		CoinBalance:  m.CoinBalance,
		ReferredByID: m.ReferredByID,
		Roles:        roles,
		CreatedAt:    m.CreatedAt,
	}
}

func ToTransactionEntity(m *models.Transaction) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:                 m.ID,
		UserID:             m.UserID,
		Type:               entity.TransactionType(m.Type),
		Amount:             m.Amount,
		AmountInCurrency:   m.AmountInCurrency,
		Status:             entity.TransactionStatus(m.Status),
		ExternalPaymentRef: m.ExternalPaymentRef,
		Description:        m.Description,
		CreatedAt:          m.CreatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *models.Transaction {
	if e == nil {
		return nil
	}

	return &models.Transaction{
		ID:                 e.ID,
		UserID:             e.UserID,
		Type:               string(e.Type),
		Amount:             e.Amount,
		AmountInCurrency:   e.AmountInCurrency,
		Status:             string(e.Status),
		ExternalPaymentRef: e.ExternalPaymentRef,
		Description:        e.Description,
		CreatedAt:          e.CreatedAt,
	}
}

func ToEarningModel(e *entity.Earning) *models.Earning {
	if e == nil {
		return nil
	}

	return &models.Earning{
		ID:        e.ID,
		UserID:    e.UserID,
		Type:      string(e.Type),
		Amount:    e.Amount,
		Source:    e.Source,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}

func ToEarningEntity(m *models.Earning) *entity.Earning {
	if m == nil {
		return nil
	}

	return &entity.Earning{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      entity.EarningType(m.Type),
		Amount:    m.Amount,
		Source:    m.Source,
		Status:    entity.EarningStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func ToWithdrawalModel(e *entity.Withdrawal) *models.Withdrawal {
	if e == nil {
		return nil
	}

	return &models.Withdrawal{
		ID:            e.ID,
		UserID:        e.UserID,
		Amount:        e.Amount,
		BankName:      e.BankName,
		AccountNumber: e.AccountNumber,
		AccountHolder: e.AccountHolder,
		Status:        string(e.Status),
		ExportKey:     e.ExportKey,
		CreatedAt:     e.CreatedAt,
	}
}

func ToWithdrawalEntity(m *models.Withdrawal) *entity.Withdrawal {
	if m == nil {
		return nil
	}

	return &entity.Withdrawal{
		ID:            m.ID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		AccountHolder: m.AccountHolder,
		Status:        entity.WithdrawalStatus(m.Status),
		ExportKey:     m.ExportKey,
		CreatedAt:     m.CreatedAt,
	}
}

func ToSessionModel(e *entity.LiveSession) *models.LiveSession {
	if e == nil {
		return nil
	}

	return &models.LiveSession{
		ID:            e.ID,
		HostID:        e.HostID,
		Title:         e.Title,
		Description:   e.Description,
		ScheduledAt:   e.ScheduledAt,
		RSVPPrice:     e.RSVPPrice,
		MaxAttendees:  e.MaxAttendees,
		AttendeeCount: e.AttendeeCount,
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt,
	}
}

func ToSessionEntity(m *models.LiveSession) *entity.LiveSession {
	if m == nil {
		return nil
	}

	return &entity.LiveSession{
		ID:            m.ID,
		HostID:        m.HostID,
		Title:         m.Title,
		Description:   m.Description,
		ScheduledAt:   m.ScheduledAt,
		RSVPPrice:     m.RSVPPrice,
		MaxAttendees:  m.MaxAttendees,
		AttendeeCount: m.AttendeeCount,
		Status:        entity.SessionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

func ToRSVPModel(e *entity.RSVP) *models.RSVP {
	if e == nil {
		return nil
	}

	return &models.RSVP{
		ID:         e.ID,
		UserID:     e.UserID,
		SessionID:  e.SessionID,
		PaidAmount: e.PaidAmount,
		CreatedAt:  e.CreatedAt,
	}
}

func ToProductModel(e *entity.Product) *models.Product {
	if e == nil {
		return nil
	}

	return &models.Product{
		ID:          e.ID,
		MerchantID:  e.MerchantID,
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		Type:        string(e.Type),
		Price:       e.Price,
		Stock:       e.Stock,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
	}
}

func ToProductEntity(m *models.Product) *entity.Product {
	if m == nil {
		return nil
	}

	return &entity.Product{
		ID:          m.ID,
		MerchantID:  m.MerchantID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Type:        entity.ProductType(m.Type),
		Price:       m.Price,
		Stock:       m.Stock,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}
