package payment_service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

var (
	// ErrOrphanedSubscription means a subscription is left without its
	// payment because the compensating call failed too.
	ErrOrphanedSubscription = errors.New("subscription left without payment")
	ErrPaymentNotFound      = errors.New("payment not found")
)

const (
	standardNote = "Стандартная оплата"
	customNote   = "Нестандартная оплата"
)

type paymentService struct {
	paymentRepo      repository.PaymentRepository
	subscriptionRepo repository.SubscriptionRepository
	studentRepo      repository.StudentRepository
	groupRepo        repository.GroupRepository
	settingsRepo     repository.SettingsRepository
	notifier         service.Notifier
	log              *zap.Logger
	now              func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	subscriptionRepo repository.SubscriptionRepository,
	studentRepo repository.StudentRepository,
	groupRepo repository.GroupRepository,
	settingsRepo repository.SettingsRepository,
	notifier service.Notifier,
	log *zap.Logger,
) service.PaymentService {
	return &paymentService{
		paymentRepo:      paymentRepo,
		subscriptionRepo: subscriptionRepo,
		studentRepo:      studentRepo,
		groupRepo:        groupRepo,
		settingsRepo:     settingsRepo,
		notifier:         notifier,
		log:              log,
		now:              time.Now,
	}
}

// StandardPrice is the price for the group's age and the student's
// subscription type.
func StandardPrice(prices models.Prices, age models.AgeGroup, t models.SubscriptionType) models.Money {
	return prices.For(age, t)
}

// BadgeFor compares a month's payment with the standard price.
func BadgeFor(payment *models.Payment, standard models.Money) service.Badge {
	switch {
	case payment == nil:
		return service.Badge{Kind: service.BadgeUnpaid}
	case payment.Amount < standard:
		return service.Badge{Kind: service.BadgePartial, Shortfall: standard - payment.Amount}
	case payment.Amount > standard:
		return service.Badge{Kind: service.BadgePaid, Overage: payment.Amount - standard}
	default:
		return service.Badge{Kind: service.BadgePaid}
	}
}

func findPayment(payments []models.Payment, match func(models.Payment) bool) *models.Payment {
	if i := slices.IndexFunc(payments, match); i >= 0 {
		p := payments[i]
		return &p
	}
	return nil
}

func (s *paymentService) Load(ctx context.Context, groupID string, month models.Month) (*service.PaymentsView, error) {
	groups, err := s.groupRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	view := &service.PaymentsView{Groups: groups, Month: month}

	idx := slices.IndexFunc(groups, func(g models.Group) bool { return g.ID == groupID })
	if groupID == "" || idx < 0 {
		return view, nil
	}
	group := groups[idx]
	view.Group = &group

	prices, err := s.settingsRepo.GetPrices(ctx)
	if err != nil {
		return nil, err
	}
	view.Prices = *prices

	students, err := s.studentRepo.List(ctx, repository.StudentFilter{GroupID: groupID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	// Ошибка загрузки оплат не мешает показать список учеников
	payments, err := s.paymentRepo.GetByMonth(ctx, month)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return nil, err
		}
		s.log.Warn("не удалось загрузить оплаты за месяц", zap.Stringer("month", month), zap.Error(err))
		payments = nil
	}

	for _, st := range students {
		subType := st.SubscriptionType.OrDefault()
		standard := StandardPrice(*prices, group.AgeGroup, subType)
		payment := findPayment(payments, func(p models.Payment) bool { return p.StudentID == st.ID })

		view.Rows = append(view.Rows, service.PaymentRow{
			Student:          st,
			SubscriptionType: subType,
			StandardPrice:    standard,
			Payment:          payment,
			Badge:            BadgeFor(payment, standard),
		})
		if payment != nil {
			view.Summary.Paid++
		}
	}
	view.Summary.Total = len(students)
	view.Summary.Unpaid = view.Summary.Total - view.Summary.Paid
	return view, nil
}

// QuickStandardPayment records the 8-session price for the group's age.
func (s *paymentService) QuickStandardPayment(ctx context.Context, groupID, studentID string, month models.Month) (*models.Payment, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	prices, err := s.settingsRepo.GetPrices(ctx)
	if err != nil {
		return nil, err
	}
	price := StandardPrice(*prices, group.AgeGroup, models.Subscription8)
	return s.pay(ctx, studentID, models.Subscription8, price, month, standardNote)
}

func (s *paymentService) CustomPayment(ctx context.Context, in *service.CustomPayment) (*models.Payment, error) {
	if err := service.Validate(in); err != nil {
		return nil, err
	}
	notes := in.Notes
	if notes == "" {
		notes = customNote
	}
	return s.pay(ctx, in.StudentID, in.SubscriptionType, in.Amount, in.Month, notes)
}

func activeSubscription(subs []models.Subscription) *models.Subscription {
	var latest *models.Subscription
	for i := range subs {
		if !subs[i].IsActive {
			continue
		}
		if latest == nil || subs[i].StartDate.After(latest.StartDate) {
			latest = &subs[i]
		}
	}
	return latest
}

// pay creates a subscription when the student has no active one, then the
// payment. A subscription created here is deleted again if the payment fails.
func (s *paymentService) pay(ctx context.Context, studentID string, subType models.SubscriptionType, amount models.Money, month models.Month, notes string) (*models.Payment, error) {
	subs, err := s.subscriptionRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var subscriptionID string
	created := false
	if active := activeSubscription(subs); active != nil {
		subscriptionID = active.ID
	} else {
		sub, err := s.subscriptionRepo.Create(ctx, &models.SubscriptionInput{
			StudentID:        studentID,
			SubscriptionType: subType,
			Price:            amount,
			StartDate:        month.FirstDay(),
		})
		if err != nil {
			return nil, err
		}
		subscriptionID = sub.ID
		created = true
	}

	payment, err := s.paymentRepo.Create(ctx, &models.PaymentInput{
		StudentID:      studentID,
		SubscriptionID: subscriptionID,
		Amount:         amount,
		PaymentType:    models.PaymentFull,
		PaymentDate:    models.DateOf(s.now()),
		PaymentMonth:   month.FirstDay(),
		Status:         models.PaymentPaid,
		Notes:          notes,
	})
	if err == nil {
		return payment, nil
	}
	if !created {
		return nil, err
	}

	// Откатываем созданный абонемент даже если клиент уже отключился
	rollbackCtx := context.WithoutCancel(ctx)
	if derr := s.subscriptionRepo.Delete(rollbackCtx, subscriptionID); derr != nil {
		s.reportOrphan(rollbackCtx, studentID, subscriptionID, derr)
		return nil, errors.Wrapf(ErrOrphanedSubscription, "subscription %s after payment error: %v", subscriptionID, err)
	}
	return nil, err
}

func (s *paymentService) monthPayment(ctx context.Context, month models.Month, paymentID string) (*models.Payment, error) {
	payments, err := s.paymentRepo.GetByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	payment := findPayment(payments, func(p models.Payment) bool { return p.ID == paymentID })
	if payment == nil {
		return nil, errors.Wrapf(ErrPaymentNotFound, "payment %s in %s", paymentID, month)
	}
	return payment, nil
}

func (s *paymentService) Details(ctx context.Context, groupID, paymentID string, month models.Month) (*service.PaymentDetails, error) {
	payment, err := s.monthPayment(ctx, month, paymentID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	prices, err := s.settingsRepo.GetPrices(ctx)
	if err != nil {
		return nil, err
	}

	details := &service.PaymentDetails{
		Payment:       *payment,
		StudentName:   payment.StudentName,
		StandardPrice: payment.Amount,
	}
	if payment.SubscriptionID == "" {
		return details, nil
	}

	subs, err := s.subscriptionRepo.GetByStudentID(ctx, payment.StudentID)
	if err != nil {
		return nil, err
	}
	if i := slices.IndexFunc(subs, func(sub models.Subscription) bool { return sub.ID == payment.SubscriptionID }); i >= 0 {
		details.Subscription = &subs[i]
		details.StandardPrice = StandardPrice(*prices, group.AgeGroup, subs[i].SubscriptionType)
	}
	return details, nil
}

// UpdatePayment changes the amount and notes and keeps the linked
// subscription price equal to the amount.
func (s *paymentService) UpdatePayment(ctx context.Context, month models.Month, paymentID string, amount models.Money, notes string) error {
	if amount <= 0 {
		return service.Invalid("amount", "сумма должна быть больше нуля")
	}
	payment, err := s.monthPayment(ctx, month, paymentID)
	if err != nil {
		return err
	}

	if _, err := s.paymentRepo.Update(ctx, paymentID, &models.PaymentUpdate{Amount: &amount, Notes: &notes}); err != nil {
		return err
	}
	if payment.SubscriptionID == "" {
		return nil
	}
	if _, err := s.subscriptionRepo.Update(ctx, payment.SubscriptionID, &models.SubscriptionUpdate{Price: &amount}); err != nil {
		// возвращаем прежнюю сумму, чтобы оплата и абонемент не разошлись
		_, rerr := s.paymentRepo.Update(context.WithoutCancel(ctx), paymentID, &models.PaymentUpdate{
			Amount: &payment.Amount,
			Notes:  &payment.Notes,
		})
		if rerr != nil {
			s.log.Error("не удалось вернуть сумму оплаты",
				zap.String("payment_id", paymentID),
				zap.Error(rerr),
			)
		}
		return err
	}
	return nil
}

// CancelPayment deletes the payment, then its subscription. If the
// subscription cannot be deleted the payment is recreated.
func (s *paymentService) CancelPayment(ctx context.Context, month models.Month, paymentID string) error {
	payment, err := s.monthPayment(ctx, month, paymentID)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(ctx, paymentID); err != nil {
		return err
	}
	if payment.SubscriptionID == "" {
		return nil
	}

	err = s.subscriptionRepo.Delete(ctx, payment.SubscriptionID)
	if err == nil || apiclient.IsNotFound(err) {
		return nil
	}

	rollbackCtx := context.WithoutCancel(ctx)
	_, cerr := s.paymentRepo.Create(rollbackCtx, &models.PaymentInput{
		StudentID:      payment.StudentID,
		SubscriptionID: payment.SubscriptionID,
		Amount:         payment.Amount,
		PaymentType:    payment.PaymentType,
		PaymentDate:    payment.PaymentDate,
		PaymentMonth:   payment.PaymentMonth,
		Status:         payment.Status,
		Notes:          payment.Notes,
	})
	if cerr != nil {
		s.reportOrphan(rollbackCtx, payment.StudentID, payment.SubscriptionID, cerr)
		return errors.Wrapf(ErrOrphanedSubscription, "subscription %s after cancel error: %v", payment.SubscriptionID, err)
	}
	return err
}

func (s *paymentService) Unpaid(ctx context.Context, month models.Month) (*models.UnpaidReport, error) {
	return s.paymentRepo.Unpaid(ctx, month)
}

func (s *paymentService) reportOrphan(ctx context.Context, studentID, subscriptionID string, cause error) {
	s.log.Error("абонемент остался без оплаты",
		zap.String("student_id", studentID),
		zap.String("subscription_id", subscriptionID),
		zap.Error(cause),
	)
	if s.notifier == nil {
		return
	}
	text := fmt.Sprintf("⚠️ Абонемент %s ученика %s остался без оплаты. Удалите его вручную.", subscriptionID, studentID)
	if err := s.notifier.NotifyAdmins(ctx, text); err != nil {
		s.log.Warn("не удалось уведомить администраторов", zap.Error(err))
	}
}
