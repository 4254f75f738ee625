package repository

import (
	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository/dao"
)

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Name:            e.Name,
		CurrencyName:    e.CurrencyName,
		CurrencySymbol:  e.CurrencySymbol,
		ExchangeRate:    e.ExchangeRate,
		StartingBalance: e.StartingBalance,
		DurationHours:   e.DurationHours,
		IsActive:        e.IsActive,
		CreatedAt:       e.CreatedAt,
		ExpiresAt:       e.ExpiresAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func eventDomainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Name:            e.Name,
		CurrencyName:    e.CurrencyName,
		CurrencySymbol:  e.CurrencySymbol,
		ExchangeRate:    e.ExchangeRate,
		StartingBalance: e.StartingBalance,
		DurationHours:   e.DurationHours,
		IsActive:        e.IsActive,
		CreatedAt:       e.CreatedAt,
		ExpiresAt:       e.ExpiresAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:       p.ID,
		EventID:  p.EventID,
		Name:     p.Name,
		JoinCode: p.JoinCode,
		JoinedAt: p.JoinedAt,
	}
}

func walletDaoToDomain(w dao.Wallet) domain.Wallet {
	return domain.Wallet{
		ID:            w.ID,
		ParticipantID: w.ParticipantID,
		EventID:       w.EventID,
		Balance:       w.Balance,
		Version:       w.Version,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func walletDomainToDao(w domain.Wallet) dao.Wallet {
	return dao.Wallet{
		ID:            w.ID,
		ParticipantID: w.ParticipantID,
		EventID:       w.EventID,
		Balance:       w.Balance,
		Version:       w.Version,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func participantWalletDaoToDomain(p dao.Participant) domain.ParticipantWallet {
	pw := domain.ParticipantWallet{Participant: participantDaoToDomain(p)}
	if p.Wallet != nil {
		pw.Wallet = walletDaoToDomain(*p.Wallet)
	}

	return pw
}

func vendorDaoToDomain(v dao.Vendor) domain.Vendor {
	return domain.Vendor{
		ID:            v.ID,
		EventID:       v.EventID,
		Name:          v.Name,
		VendorCode:    v.VendorCode,
		TotalEarnings: v.TotalEarnings,
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func vendorDomainToDao(v domain.Vendor) dao.Vendor {
	return dao.Vendor{
		ID:            v.ID,
		EventID:       v.EventID,
		Name:          v.Name,
		VendorCode:    v.VendorCode,
		TotalEarnings: v.TotalEarnings,
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func transactionDaoToDomain(t dao.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:           t.ID,
		EventID:      t.EventID,
		Type:         domain.TransactionType(t.Type),
		Amount:       t.Amount,
		FromWalletID: t.FromWalletID,
		ToWalletID:   t.ToWalletID,
		VendorID:     t.VendorID,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
}

func transactionDomainToDao(t domain.Transaction) dao.Transaction {
	return dao.Transaction{
		ID:           t.ID,
		EventID:      t.EventID,
		Type:         dao.TransactionType(t.Type),
		Amount:       t.Amount,
		FromWalletID: t.FromWalletID,
		ToWalletID:   t.ToWalletID,
		VendorID:     t.VendorID,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
}

func transactionsWithVendorToDomain(txns []dao.TransactionWithVendor) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		txn := transactionDaoToDomain(t.Transaction)
		if t.VendorName != nil {
			txn.VendorName = *t.VendorName
		}
		out = append(out, txn)
	}

	return out
}

func badgeDaoToDomain(b dao.Badge) domain.Badge {
	return domain.Badge{
		ID:          b.ID,
		EventID:     b.EventID,
		Name:        b.Name,
		Icon:        b.Icon,
		Description: b.Description,
		Criteria:    domain.BadgeCriteria(b.Criteria),
		CreatedAt:   b.CreatedAt,
	}
}

func badgeDomainToDao(b domain.Badge) dao.Badge {
	return dao.Badge{
		ID:          b.ID,
		EventID:     b.EventID,
		Name:        b.Name,
		Icon:        b.Icon,
		Description: b.Description,
		Criteria:    string(b.Criteria),
		CreatedAt:   b.CreatedAt,
	}
}

func organizerDaoToDomain(o dao.Organizer) domain.Organizer {
	return domain.Organizer{
		ID:        o.ID,
		Email:     o.Email,
		Password:  o.Password,
		Name:      o.Name,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
