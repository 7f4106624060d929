package reports

import "time"

func pay(memberID uint, membershipID, name, month string, amount float64) Payment {
	t, _ := time.Parse("2006-01", month)
	return Payment{
		MemberID:     memberID,
		MembershipID: membershipID,
		MemberName:   name,
		Month:        month,
		Amount:       amount,
		PaymentDate:  t.AddDate(0, 0, 14),
	}
}

func sampleDataset() Dataset {
	return Dataset{
		Members: []MemberInfo{
			{MemberID: 1, MembershipID: "MEM-A", Name: "Alice", Email: "a@example.com", Active: true},
			{MemberID: 2, MembershipID: "MEM-B", Name: "Bob", Email: "b@example.com", Active: true},
			{MemberID: 3, MembershipID: "MEM-C", Name: "Carol", Email: "c@example.com", Active: false},
		},
		Payments: []Payment{
			pay(1, "MEM-A", "Alice", "2024-10", 5000),
			pay(1, "MEM-A", "Alice", "2024-11", 5000),
			pay(2, "MEM-B", "Bob", "2024-10", 2000),
		},
	}
}
