package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/pkg/apperrors"
)

// passTx runs the function directly; fakes have no transactions.
type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingBroker captures published events for assertions.
type recordingBroker struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Topic string
	Event events.Event
}

func (b *recordingBroker) Publish(topic string, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, publishedEvent{Topic: topic, Event: event})
}

func (b *recordingBroker) Subscribe(topic string) (<-chan events.Event, func()) {
	ch := make(chan events.Event)
	close(ch)
	return ch, func() {}
}

func (b *recordingBroker) Close() {}

func (b *recordingBroker) byType(eventType string) []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []publishedEvent
	for _, e := range b.events {
		if e.Event.Event == eventType {
			out = append(out, e)
		}
	}
	return out
}

// onTopic narrows byType to a single topic, since every tenant publish is
// also fanned out to the owners topic.
func (b *recordingBroker) onTopic(eventType, topic string) []publishedEvent {
	var out []publishedEvent
	for _, e := range b.byType(eventType) {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func newTestPublisher(broker *recordingBroker) *events.Publisher {
	return events.NewPublisher(broker, zerolog.Nop())
}

// fakeRoomRepo is an in-memory IRoomRepository backed by the student fake
// for occupant counts.
type fakeRoomRepo struct {
	mu       sync.Mutex
	nextID   int64
	rooms    map[int64]*models.Room
	students *fakeStudentRepo
}

func newFakeRoomRepo(students *fakeStudentRepo) *fakeRoomRepo {
	return &fakeRoomRepo{nextID: 1, rooms: map[int64]*models.Room{}, students: students}
}

func (r *fakeRoomRepo) add(room models.Room) *models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	room.ID = r.nextID
	r.nextID++
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	r.rooms[room.ID] = &room
	return r.rooms[room.ID]
}

func (r *fakeRoomRepo) Create(ctx context.Context, room *models.Room) error {
	created := r.add(*room)
	room.ID = created.ID
	return nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok || !scope.Allows(room.HostelID) {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copy := *room
	return &copy, nil
}

func (r *fakeRoomRepo) List(ctx context.Context, scope auth.AccessScope) ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Room
	for _, room := range r.rooms {
		if scope.Allows(room.HostelID) {
			out = append(out, *room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRoomRepo) ListAvailable(ctx context.Context, scope auth.AccessScope, minFreeSpots int) ([]models.Room, error) {
	rooms, _ := r.List(ctx, scope)
	var out []models.Room
	for _, room := range rooms {
		if room.Capacity-room.CurrentOccupancy >= minFreeSpots && !room.Status.Manual() {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rooms[room.ID]
	if !ok {
		return apperrors.ErrNotFoundOrDenied
	}
	existing.RoomNumber = room.RoomNumber
	existing.Capacity = room.Capacity
	existing.Status = room.Status
	return nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok || !scope.Allows(room.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	delete(r.rooms, id)
	return nil
}

func (r *fakeRoomRepo) BulkUpdateStatus(ctx context.Context, scope auth.AccessScope, ids []int64, status models.RoomStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, id := range ids {
		if room, ok := r.rooms[id]; ok && scope.Allows(room.HostelID) {
			room.Status = status
			updated++
		}
	}
	return updated, nil
}

func (r *fakeRoomRepo) StatusCounts(ctx context.Context, scope auth.AccessScope) (map[models.RoomStatus]int64, error) {
	rooms, _ := r.List(ctx, scope)
	counts := map[models.RoomStatus]int64{}
	for _, room := range rooms {
		counts[room.Status]++
	}
	return counts, nil
}

func (r *fakeRoomRepo) RoomForUpdate(ctx context.Context, id int64) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copy := *room
	return &copy, nil
}

func (r *fakeRoomRepo) CountOccupants(ctx context.Context, roomID int64) (int, error) {
	return r.students.countInRoom(roomID), nil
}

func (r *fakeRoomRepo) SetOccupancy(ctx context.Context, roomID int64, occupancy int, status models.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return apperrors.ErrNotFoundOrDenied
	}
	room.CurrentOccupancy = occupancy
	room.Status = status
	return nil
}

// fakeStudentRepo is an in-memory IStudentRepository.
type fakeStudentRepo struct {
	mu       sync.Mutex
	nextID   int64
	students map[int64]*models.Student
	details  map[int64]*models.StudentDetails
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{nextID: 1, students: map[int64]*models.Student{}, details: map[int64]*models.StudentDetails{}}
}

func (r *fakeStudentRepo) countInRoom(roomID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.students {
		if s.RoomID != nil && *s.RoomID == roomID {
			count++
		}
	}
	return count
}

func (r *fakeStudentRepo) add(student models.Student) *models.Student {
	r.mu.Lock()
	defer r.mu.Unlock()
	student.ID = r.nextID
	r.nextID++
	r.students[student.ID] = &student
	return r.students[student.ID]
}

func (r *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	for _, s := range r.students {
		if s.StudentIDNumber == student.StudentIDNumber {
			r.mu.Unlock()
			return apperrors.ErrStudentIDExists
		}
	}
	r.mu.Unlock()
	created := r.add(*student)
	student.ID = created.ID
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	student, ok := r.students[id]
	if !ok || !scope.Allows(student.HostelID) {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copy := *student
	return &copy, nil
}

func (r *fakeStudentRepo) List(ctx context.Context, scope auth.AccessScope) ([]models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Student
	for _, student := range r.students {
		if scope.Allows(student.HostelID) {
			out = append(out, *student)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, student *models.Student, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.students[student.ID]
	if !ok || !scope.Allows(existing.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	roomID := existing.RoomID
	*existing = *student
	existing.RoomID = roomID
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	student, ok := r.students[id]
	if !ok || !scope.Allows(student.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	delete(r.students, id)
	delete(r.details, id)
	return nil
}

func (r *fakeStudentRepo) SetRoom(ctx context.Context, studentID int64, roomID *int64, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	student, ok := r.students[studentID]
	if !ok || !scope.Allows(student.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	student.RoomID = roomID
	return nil
}

func (r *fakeStudentRepo) UpsertDetails(ctx context.Context, details *models.StudentDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *details
	r.details[details.StudentID] = &copy
	return nil
}

func (r *fakeStudentRepo) GetDetails(ctx context.Context, studentID int64) (*models.StudentDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	details, ok := r.details[studentID]
	if !ok {
		return nil, nil
	}
	copy := *details
	return &copy, nil
}

func (r *fakeStudentRepo) Count(ctx context.Context, scope auth.AccessScope) (int64, error) {
	students, _ := r.List(ctx, scope)
	return int64(len(students)), nil
}

// fakeFeeRepo is an in-memory IFeeRepository.
type fakeFeeRepo struct {
	mu     sync.Mutex
	nextID int64
	fees   map[int64]*models.Fee
}

func newFakeFeeRepo() *fakeFeeRepo {
	return &fakeFeeRepo{nextID: 1, fees: map[int64]*models.Fee{}}
}

func (r *fakeFeeRepo) add(fee models.Fee) *models.Fee {
	r.mu.Lock()
	defer r.mu.Unlock()
	fee.ID = r.nextID
	r.nextID++
	r.fees[fee.ID] = &fee
	return r.fees[fee.ID]
}

func (r *fakeFeeRepo) Create(ctx context.Context, fee *models.Fee) error {
	created := r.add(*fee)
	fee.ID = created.ID
	return nil
}

func (r *fakeFeeRepo) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Fee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fee, ok := r.fees[id]
	if !ok || !scope.Allows(fee.HostelID) {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copy := *fee
	return &copy, nil
}

func (r *fakeFeeRepo) List(ctx context.Context, scope auth.AccessScope, status *models.FeeStatus) ([]models.Fee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Fee
	for _, fee := range r.fees {
		if scope.Allows(fee.HostelID) && (status == nil || fee.Status == *status) {
			out = append(out, *fee)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFeeRepo) Update(ctx context.Context, fee *models.Fee, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.fees[fee.ID]
	if !ok || !scope.Allows(existing.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	existing.Amount = fee.Amount
	existing.DueDate = fee.DueDate
	return nil
}

func (r *fakeFeeRepo) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fee, ok := r.fees[id]
	if !ok || !scope.Allows(fee.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	delete(r.fees, id)
	return nil
}

func (r *fakeFeeRepo) MarkPaid(ctx context.Context, id int64, scope auth.AccessScope, paidDate time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fee, ok := r.fees[id]
	if !ok || !scope.Allows(fee.HostelID) {
		return 0, nil
	}
	if fee.Status != models.FeeStatusPending && fee.Status != models.FeeStatusOverdue {
		return 0, nil
	}
	fee.Status = models.FeeStatusPaid
	fee.PaidDate = &paidDate
	return 1, nil
}

func (r *fakeFeeRepo) SweepOverdue(ctx context.Context, now time.Time) (map[int64]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	swept := map[int64]int64{}
	for _, fee := range r.fees {
		if fee.Status == models.FeeStatusPending && fee.DueDate.Before(now) {
			fee.Status = models.FeeStatusOverdue
			swept[fee.HostelID]++
		}
	}
	return swept, nil
}

func (r *fakeFeeRepo) SweepOverdueScoped(ctx context.Context, now time.Time, scope auth.AccessScope) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var swept int64
	for _, fee := range r.fees {
		if scope.Allows(fee.HostelID) && fee.Status == models.FeeStatusPending && fee.DueDate.Before(now) {
			fee.Status = models.FeeStatusOverdue
			swept++
		}
	}
	return swept, nil
}

func (r *fakeFeeRepo) TotalsByStatus(ctx context.Context, scope auth.AccessScope) (map[models.FeeStatus]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := map[models.FeeStatus]float64{}
	for _, fee := range r.fees {
		if scope.Allows(fee.HostelID) {
			totals[fee.Status] += fee.Amount
		}
	}
	return totals, nil
}

// fakeSweepState is an in-memory ISweepStateRepository.
type fakeSweepState struct {
	mu        sync.Mutex
	nextRunAt time.Time
	claims    int
}

func (r *fakeSweepState) TryClaim(ctx context.Context, now time.Time, interval time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Before(r.nextRunAt) {
		return false, nil
	}
	r.nextRunAt = now.Add(interval)
	r.claims++
	return true, nil
}

// fakeExpenseRepo is an in-memory IExpenseRepository.
type fakeExpenseRepo struct {
	mu       sync.Mutex
	nextID   int64
	expenses map[int64]*models.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{nextID: 1, expenses: map[int64]*models.Expense{}}
}

func (r *fakeExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	expense.ID = r.nextID
	r.nextID++
	copy := *expense
	r.expenses[expense.ID] = &copy
	return nil
}

func (r *fakeExpenseRepo) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expense, ok := r.expenses[id]
	if !ok || !scope.Allows(expense.HostelID) {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copy := *expense
	return &copy, nil
}

func (r *fakeExpenseRepo) List(ctx context.Context, scope auth.AccessScope, category string) ([]models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Expense
	for _, expense := range r.expenses {
		if scope.Allows(expense.HostelID) && (category == "" || expense.Category == category) {
			out = append(out, *expense)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeExpenseRepo) Update(ctx context.Context, expense *models.Expense, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.expenses[expense.ID]
	if !ok || !scope.Allows(existing.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	copy := *expense
	copy.HostelID = existing.HostelID
	r.expenses[expense.ID] = &copy
	return nil
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	expense, ok := r.expenses[id]
	if !ok || !scope.Allows(expense.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	delete(r.expenses, id)
	return nil
}

func (r *fakeExpenseRepo) MonthTotal(ctx context.Context, scope auth.AccessScope, year int, month int) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, expense := range r.expenses {
		if scope.Allows(expense.HostelID) &&
			expense.ExpenseDate.Year() == year && int(expense.ExpenseDate.Month()) == month {
			total += expense.Amount
		}
	}
	return total, nil
}

// fakeHostelRepo is an in-memory IHostelRepository. Dependents are flagged
// per hostel rather than derived, since the guard only needs the answer.
type fakeHostelRepo struct {
	mu         sync.Mutex
	nextID     int64
	hostels    map[int64]*models.Hostel
	dependents map[int64]bool
}

func newFakeHostelRepo() *fakeHostelRepo {
	return &fakeHostelRepo{nextID: 1, hostels: map[int64]*models.Hostel{}, dependents: map[int64]bool{}}
}

func (r *fakeHostelRepo) add(hostel models.Hostel) *models.Hostel {
	r.mu.Lock()
	defer r.mu.Unlock()
	hostel.ID = r.nextID
	r.nextID++
	r.hostels[hostel.ID] = &hostel
	return r.hostels[hostel.ID]
}

func (r *fakeHostelRepo) setDependents(id int64, has bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dependents[id] = has
}

func (r *fakeHostelRepo) Create(ctx context.Context, hostel *models.Hostel) error {
	r.mu.Lock()
	for _, h := range r.hostels {
		if h.Name == hostel.Name {
			r.mu.Unlock()
			return apperrors.ErrHostelNameExists
		}
	}
	r.mu.Unlock()
	created := r.add(*hostel)
	hostel.ID = created.ID
	return nil
}

func (r *fakeHostelRepo) GetByID(ctx context.Context, id int64) (*models.Hostel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hostel, ok := r.hostels[id]
	if !ok {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copy := *hostel
	return &copy, nil
}

func (r *fakeHostelRepo) List(ctx context.Context, scope auth.AccessScope) ([]models.Hostel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Hostel
	for _, hostel := range r.hostels {
		if scope.Allows(hostel.ID) {
			out = append(out, *hostel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeHostelRepo) Update(ctx context.Context, hostel *models.Hostel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hostels[hostel.ID]; !ok {
		return apperrors.ErrNotFoundOrDenied
	}
	copy := *hostel
	r.hostels[hostel.ID] = &copy
	return nil
}

func (r *fakeHostelRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hostels[id]; !ok {
		return apperrors.ErrNotFoundOrDenied
	}
	delete(r.hostels, id)
	return nil
}

func (r *fakeHostelRepo) HasDependents(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dependents[id], nil
}

// fakeComplaintRepo is an in-memory IComplaintRepository.
type fakeComplaintRepo struct {
	mu         sync.Mutex
	nextID     int64
	complaints map[int64]*models.Complaint
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{nextID: 1, complaints: map[int64]*models.Complaint{}}
}

func (r *fakeComplaintRepo) add(complaint models.Complaint) *models.Complaint {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = r.nextID
	r.nextID++
	r.complaints[complaint.ID] = &complaint
	return r.complaints[complaint.ID]
}

func (r *fakeComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	created := r.add(*complaint)
	complaint.ID = created.ID
	return nil
}

func (r *fakeComplaintRepo) GetByID(ctx context.Context, id int64, scope auth.AccessScope) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok || !scope.Allows(complaint.HostelID) {
		return nil, apperrors.ErrNotFoundOrDenied
	}
	copy := *complaint
	return &copy, nil
}

func (r *fakeComplaintRepo) List(ctx context.Context, scope auth.AccessScope, status *models.ComplaintStatus) ([]models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Complaint
	for _, complaint := range r.complaints {
		if !scope.Allows(complaint.HostelID) {
			continue
		}
		if status != nil && complaint.Status != *status {
			continue
		}
		out = append(out, *complaint)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeComplaintRepo) Update(ctx context.Context, complaint *models.Complaint, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.complaints[complaint.ID]
	if !ok || !scope.Allows(existing.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	copy := *complaint
	copy.HostelID = existing.HostelID
	r.complaints[complaint.ID] = &copy
	return nil
}

func (r *fakeComplaintRepo) Delete(ctx context.Context, id int64, scope auth.AccessScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok || !scope.Allows(complaint.HostelID) {
		return apperrors.ErrNotFoundOrDenied
	}
	delete(r.complaints, id)
	return nil
}
