package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

// ======================================================
// REPOSITÓRIO EM MEMÓRIA
// ======================================================

// fakeRepo reproduz a semântica do repositório real: o lock do dia
// serializa as escritas de consulta e o snapshot é uma cópia.
type fakeRepo struct {
	mu sync.Mutex

	doctors       map[uint]models.Doctor
	workplaces    map[uint]models.Workplace
	patients      map[uint]models.Patient
	familyMembers map[uint]models.FamilyMember
	appointments  map[uint]models.Appointment
	blocks        map[uint]models.BlockedSlot

	nextAppointmentID uint
	nextPatientID     uint
	nextBlockID       uint
}

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		doctors:       map[uint]models.Doctor{},
		workplaces:    map[uint]models.Workplace{},
		patients:      map[uint]models.Patient{},
		familyMembers: map[uint]models.FamilyMember{},
		appointments:  map[uint]models.Appointment{},
		blocks:        map[uint]models.BlockedSlot{},

		nextAppointmentID: 1,
		nextPatientID:     100,
		nextBlockID:       1,
	}

	r.doctors[1] = models.Doctor{
		ID:             1,
		Name:           "Dra. Helena",
		Specialization: "Cardiologia",
	}
	r.workplaces[1] = models.Workplace{
		ID:           1,
		DoctorID:     1,
		Name:         "Clínica Centro",
		Type:         "clinic",
		Timezone:     "America/Sao_Paulo",
		MorningStart: "09:00",
		MorningEnd:   "12:00",
		EveningStart: "14:00",
		EveningEnd:   "18:00",
	}
	r.workplaces[2] = models.Workplace{
		ID:           2,
		DoctorID:     1,
		Name:         "Hospital Norte",
		Type:         "hospital",
		Timezone:     "America/Sao_Paulo",
		MorningStart: "09:00",
		MorningEnd:   "12:00",
	}
	r.workplaces[3] = models.Workplace{
		ID:           3,
		DoctorID:     1,
		Name:         "Telemedicina Ásia",
		Type:         "clinic",
		Timezone:     "Asia/Tokyo",
		MorningStart: "09:00",
		MorningEnd:   "12:00",
	}
	r.patients[10] = models.Patient{ID: 10, Name: "João", Phone: "11999990000"}
	r.patients[11] = models.Patient{ID: 11, Name: "Maria", Phone: "11999990001"}

	return r
}

var errNotFound = errors.New("not found")

func (r *fakeRepo) GetDoctorByID(_ context.Context, id uint) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.doctors[id]; ok {
		return &d, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetWorkplace(_ context.Context, doctorID, workplaceID uint) (*models.Workplace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wp, ok := r.workplaces[workplaceID]; ok && wp.DoctorID == doctorID {
		return &wp, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetPatientByID(_ context.Context, id uint) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.patients[id]; ok {
		return &p, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetOrCreatePatient(_ context.Context, name, phone, email string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.Phone == phone {
			return &p, nil
		}
	}
	p := models.Patient{ID: r.nextPatientID, Name: name, Phone: phone, Email: email}
	r.nextPatientID++
	r.patients[p.ID] = p
	return &p, nil
}

func (r *fakeRepo) GetFamilyMember(_ context.Context, patientID, familyMemberID uint) (*models.FamilyMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fm, ok := r.familyMembers[familyMemberID]; ok && fm.PatientID == patientID {
		return &fm, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetAppointmentByID(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap, ok := r.appointments[id]; ok {
		return &ap, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[ap.ID]; !ok {
		return errNotFound
	}
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) ListBookedSlotLabels(_ context.Context, doctorID, workplaceID uint, dayStart, dayEnd time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var labels []string
	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID || ap.WorkplaceID != workplaceID {
			continue
		}
		if domain.Status(ap.Status) == domain.StatusCancelled {
			continue
		}
		if ap.AppointmentTime.Before(dayStart) || !ap.AppointmentTime.Before(dayEnd) {
			continue
		}
		labels = append(labels, ap.Slot)
	}
	return labels, nil
}

func (r *fakeRepo) ListActiveBlocks(_ context.Context, doctorID, workplaceID uint, dayStart, dayEnd time.Time) ([]models.BlockedSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BlockedSlot
	for _, b := range r.blocks {
		if b.DoctorID != doctorID || !b.IsActive {
			continue
		}
		if b.BlockDate.Before(dayStart) || !b.BlockDate.Before(dayEnd) {
			continue
		}
		if b.WorkplaceID != nil && *b.WorkplaceID != workplaceID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForDay(_ context.Context, doctorID uint, workplaceID *uint, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dayRowsLocked(doctorID, workplaceID, dayStart, dayEnd), nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, doctorID, workplaceID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.dayRowsLocked(doctorID, &workplaceID, start, end)
	for i := range rows {
		if p, ok := r.patients[rows[i].PatientID]; ok {
			rows[i].Patient = p
		}
	}
	return rows, nil
}

func (r *fakeRepo) dayRowsLocked(doctorID uint, workplaceID *uint, start, end time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID {
			continue
		}
		if workplaceID != nil && ap.WorkplaceID != *workplaceID {
			continue
		}
		if ap.AppointmentTime.Before(start) || !ap.AppointmentTime.Before(end) {
			continue
		}
		out = append(out, ap)
	}
	return out
}

func (r *fakeRepo) CreateBlockedSlot(_ context.Context, bs *models.BlockedSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bs.ID = r.nextBlockID
	r.nextBlockID++
	r.blocks[bs.ID] = *bs
	return nil
}

func (r *fakeRepo) GetBlockedSlot(_ context.Context, doctorID, id uint) (*models.BlockedSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blocks[id]; ok && b.DoctorID == doctorID {
		return &b, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) ListBlockedSlotsForDoctor(_ context.Context, doctorID uint) ([]models.BlockedSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BlockedSlot
	for _, b := range r.blocks {
		if b.DoctorID == doctorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateBlockedSlot(_ context.Context, bs *models.BlockedSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[bs.ID]; !ok {
		return errNotFound
	}
	r.blocks[bs.ID] = *bs
	return nil
}

// fakeDayLock escreve direto no mapa: o mutex já está com o chamador
type fakeDayLock struct {
	repo     *fakeRepo
	snapshot []models.Appointment
}

func (d *fakeDayLock) Appointments() []models.Appointment { return d.snapshot }

func (d *fakeDayLock) Create(ap *models.Appointment) error {
	ap.ID = d.repo.nextAppointmentID
	d.repo.nextAppointmentID++
	ap.CreatedAt = time.Now()
	d.repo.appointments[ap.ID] = *ap
	return nil
}

func (d *fakeDayLock) Update(ap *models.Appointment) error {
	if _, ok := d.repo.appointments[ap.ID]; !ok {
		return errNotFound
	}
	d.repo.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) WithDoctorDayLock(_ context.Context, doctorID uint, dayStart, dayEnd time.Time, fn func(day domain.DayLock) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.dayRowsLocked(doctorID, nil, dayStart, dayEnd)
	return fn(&fakeDayLock{repo: r, snapshot: snapshot})
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// AUDIT / NOTIFY
// ======================================================

type recorderStub struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recorderStub) Dispatch(ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

type notifierStub struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (s *notifierStub) Dispatch(n notify.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
}

func (s *notifierStub) byType(eventType string) []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notify.Notification
	for _, n := range s.sent {
		if n.EventType == eventType {
			out = append(out, n)
		}
	}
	return out
}
