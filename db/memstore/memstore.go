// Package memstore is an in-memory services.Store used by tests and local
// experiments. Transactions run serially against a copy of the state and
// replace it on success.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"Gin_postgres_redis_equipment_rent/models"
	"Gin_postgres_redis_equipment_rent/services"
)

var _ services.Store = (*Store)(nil)

type state struct {
	nextID      uint
	departments map[uint]models.Department
	staff       map[uint]models.Staff
	devices     map[uint]models.Device
	rentals     map[uint]models.Rental
	maintenance map[uint]models.Maintenance
	statusLog   []models.DeviceStatusLog
}

func newState() *state {
	return &state{
		departments: map[uint]models.Department{},
		staff:       map[uint]models.Staff{},
		devices:     map[uint]models.Device{},
		rentals:     map[uint]models.Rental{},
		maintenance: map[uint]models.Maintenance{},
	}
}

func (s *state) clone() *state {
	c := &state{
		nextID:      s.nextID,
		departments: make(map[uint]models.Department, len(s.departments)),
		staff:       make(map[uint]models.Staff, len(s.staff)),
		devices:     make(map[uint]models.Device, len(s.devices)),
		rentals:     make(map[uint]models.Rental, len(s.rentals)),
		maintenance: make(map[uint]models.Maintenance, len(s.maintenance)),
		statusLog:   append([]models.DeviceStatusLog(nil), s.statusLog...),
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.staff {
		c.staff[k] = v
	}
	for k, v := range s.devices {
		c.devices[k] = v
	}
	for k, v := range s.rentals {
		c.rentals[k] = v
	}
	for k, v := range s.maintenance {
		c.maintenance[k] = v
	}
	return c
}

func (s *state) id() uint {
	s.nextID++
	return s.nextID
}

type Store struct {
	mu    sync.Mutex
	state *state
	// FailSetStatus makes SetDeviceStatus fail, for rollback tests.
	FailSetStatus error
}

func New() *Store { return &Store{state: newState()} }

func (s *Store) WithTx(ctx context.Context, fn func(tx services.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &Store{state: s.state.clone(), FailSetStatus: s.FailSetStatus}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, services.ErrNotFound)
}

func conflict(msg string) error {
	return fmt.Errorf("%s: %w", msg, services.ErrConflict)
}

// ---------- Departments ----------

func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Department, 0, len(s.state.departments))
	for _, d := range s.state.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) FindDepartment(ctx context.Context, id uint) (*models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.state.departments[id]
	if !ok {
		return nil, notFound("department", id)
	}
	return &d, nil
}

func (s *Store) CreateDepartment(ctx context.Context, d *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.uniqueDepartment(d); err != nil {
		return err
	}
	d.ID = s.state.id()
	d.CreatedAt = time.Now().UTC()
	s.state.departments[d.ID] = *d
	return nil
}

func (s *Store) UpdateDepartment(ctx context.Context, d *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.departments[d.ID]; !ok {
		return notFound("department", d.ID)
	}
	if err := s.uniqueDepartment(d); err != nil {
		return err
	}
	s.state.departments[d.ID] = *d
	return nil
}

func (s *Store) uniqueDepartment(d *models.Department) error {
	for _, other := range s.state.departments {
		if other.ID != d.ID && other.Name == d.Name {
			return conflict("department name already exists")
		}
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.departments[id]; !ok {
		return notFound("department", id)
	}
	for _, st := range s.state.staff {
		if st.DepartmentID != nil && *st.DepartmentID == id {
			return conflict("department is referenced by staff")
		}
	}
	for _, r := range s.state.rentals {
		if r.DepartmentID == id {
			return conflict("department is referenced by rentals")
		}
	}
	delete(s.state.departments, id)
	return nil
}

// ---------- Staff ----------

func (s *Store) ListStaff(ctx context.Context) ([]models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Staff, 0, len(s.state.staff))
	for _, st := range s.state.staff {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (s *Store) FindStaff(ctx context.Context, id uint) (*models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state.staff[id]
	if !ok {
		return nil, notFound("staff", id)
	}
	return &st, nil
}

func (s *Store) FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.state.staff {
		if strings.EqualFold(st.Email, email) {
			return &st, nil
		}
	}
	return nil, notFound("staff", email)
}

func (s *Store) CreateStaff(ctx context.Context, st *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.uniqueStaff(st); err != nil {
		return err
	}
	st.ID = s.state.id()
	st.CreatedAt = time.Now().UTC()
	s.state.staff[st.ID] = *st
	return nil
}

func (s *Store) UpdateStaff(ctx context.Context, st *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.staff[st.ID]; !ok {
		return notFound("staff", st.ID)
	}
	if err := s.uniqueStaff(st); err != nil {
		return err
	}
	s.state.staff[st.ID] = *st
	return nil
}

func (s *Store) uniqueStaff(st *models.Staff) error {
	for _, other := range s.state.staff {
		if other.ID != st.ID && strings.EqualFold(other.Email, st.Email) {
			return conflict("staff email already exists")
		}
	}
	return nil
}

func (s *Store) DeleteStaff(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.staff[id]; !ok {
		return notFound("staff", id)
	}
	for _, r := range s.state.rentals {
		if r.StaffID == id {
			return conflict("staff is referenced by rentals")
		}
	}
	for _, m := range s.state.maintenance {
		if m.StaffID == id {
			return conflict("staff is referenced by maintenance")
		}
	}
	delete(s.state.staff, id)
	return nil
}

func (s *Store) CountTechnicians(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, st := range s.state.staff {
		if st.IsTechnician() {
			n++
		}
	}
	return n, nil
}

func (s *Store) TouchStaffSeen(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state.staff[id]
	if !ok {
		return notFound("staff", id)
	}
	now := time.Now().UTC()
	st.LastSeenAt = &now
	s.state.staff[id] = st
	return nil
}

// ---------- Devices ----------

func (s *Store) ListDevices(ctx context.Context, status models.DeviceStatus) ([]models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Device, 0, len(s.state.devices))
	for _, d := range s.state.devices {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) FindDevice(ctx context.Context, id uint) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.state.devices[id]
	if !ok {
		return nil, notFound("device", id)
	}
	return &d, nil
}

// LockDevice 内存实现中事务本身已串行
func (s *Store) LockDevice(ctx context.Context, id uint) (*models.Device, error) {
	return s.FindDevice(ctx, id)
}

func (s *Store) CreateDevice(ctx context.Context, d *models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.state.id()
	if d.Status == "" {
		d.Status = models.DeviceAvailable
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	s.state.devices[d.ID] = *d
	return nil
}

func (s *Store) UpdateDevice(ctx context.Context, d *models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.state.devices[d.ID]
	if !ok {
		return notFound("device", d.ID)
	}
	next := *d
	next.Status = cur.Status
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	s.state.devices[d.ID] = next
	d.Status = cur.Status
	return nil
}

func (s *Store) DeleteDevice(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.devices[id]; !ok {
		return notFound("device", id)
	}
	for _, r := range s.state.rentals {
		if r.DeviceID == id {
			return conflict("device is referenced by rentals")
		}
	}
	for _, m := range s.state.maintenance {
		if m.DeviceID == id {
			return conflict("device is referenced by maintenance")
		}
	}
	delete(s.state.devices, id)
	return nil
}

func (s *Store) SetDeviceStatus(ctx context.Context, id uint, status models.DeviceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSetStatus != nil {
		return s.FailSetStatus
	}
	d, ok := s.state.devices[id]
	if !ok {
		return notFound("device", id)
	}
	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	s.state.devices[id] = d
	return nil
}

func (s *Store) CountDevicesByStatus(ctx context.Context) (map[models.DeviceStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[models.DeviceStatus]int64{}
	for _, d := range s.state.devices {
		out[d.Status]++
	}
	return out, nil
}

func (s *Store) CreateStatusLog(ctx context.Context, l *models.DeviceStatusLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.state.id()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	s.state.statusLog = append(s.state.statusLog, *l)
	return nil
}

func (s *Store) ListStatusLog(ctx context.Context, deviceID uint) ([]models.DeviceStatusLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DeviceStatusLog
	for i := len(s.state.statusLog) - 1; i >= 0; i-- {
		if l := s.state.statusLog[i]; l.DeviceID == deviceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ---------- Rentals ----------

func (s *Store) ListRentals(ctx context.Context, f services.RentalFilter) ([]models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rental
	for _, r := range s.state.rentals {
		if f.ActiveOnly && !r.IsActive() {
			continue
		}
		if f.DeviceID != 0 && r.DeviceID != f.DeviceID {
			continue
		}
		if f.StaffID != 0 && r.StaffID != f.StaffID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) FindRental(ctx context.Context, id uint) (*models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state.rentals[id]
	if !ok {
		return nil, notFound("rental", id)
	}
	return &r, nil
}

func (s *Store) LockRental(ctx context.Context, id uint) (*models.Rental, error) {
	return s.FindRental(ctx, id)
}

func (s *Store) ActiveRentalsForDevice(ctx context.Context, deviceID uint) ([]models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRentals(deviceID), nil
}

func (s *Store) activeRentals(deviceID uint) []models.Rental {
	var out []models.Rental
	for _, r := range s.state.rentals {
		if r.DeviceID == deviceID && r.IsActive() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RentStartDate.Before(out[j].RentStartDate) })
	return out
}

// CreateRental 模拟 Postgres 的排他约束：同一设备 Active 借用区间不得重叠
func (s *Store) CreateRental(ctx context.Context, r *models.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRentalRefs(r); err != nil {
		return err
	}
	if r.IsActive() {
		for _, other := range s.activeRentals(r.DeviceID) {
			if services.Overlaps(other.RentStartDate, other.RentEndDate, r.RentStartDate, r.RentEndDate) {
				return conflict("rentals_no_overlapping_active")
			}
		}
	}
	r.ID = s.state.id()
	r.CreatedAt = time.Now().UTC()
	s.state.rentals[r.ID] = *r
	return nil
}

func (s *Store) SaveRental(ctx context.Context, r *models.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.rentals[r.ID]; !ok {
		return notFound("rental", r.ID)
	}
	s.state.rentals[r.ID] = *r
	return nil
}

func (s *Store) checkRentalRefs(r *models.Rental) error {
	if _, ok := s.state.devices[r.DeviceID]; !ok {
		return conflict("rental references missing device")
	}
	if _, ok := s.state.staff[r.StaffID]; !ok {
		return conflict("rental references missing staff")
	}
	if _, ok := s.state.departments[r.DepartmentID]; !ok {
		return conflict("rental references missing department")
	}
	return nil
}

// ---------- Maintenance ----------

func (s *Store) ListMaintenance(ctx context.Context, deviceID uint) ([]models.Maintenance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Maintenance
	for _, m := range s.state.maintenance {
		if deviceID == 0 || m.DeviceID == deviceID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) FindMaintenance(ctx context.Context, id uint) (*models.Maintenance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.state.maintenance[id]
	if !ok {
		return nil, notFound("maintenance", id)
	}
	return &m, nil
}

func (s *Store) CreateMaintenance(ctx context.Context, m *models.Maintenance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.devices[m.DeviceID]; !ok {
		return conflict("maintenance references missing device")
	}
	if _, ok := s.state.staff[m.StaffID]; !ok {
		return conflict("maintenance references missing staff")
	}
	m.ID = s.state.id()
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	s.state.maintenance[m.ID] = *m
	return nil
}

func (s *Store) SaveMaintenance(ctx context.Context, m *models.Maintenance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.maintenance[m.ID]; !ok {
		return notFound("maintenance", m.ID)
	}
	m.UpdatedAt = time.Now().UTC()
	s.state.maintenance[m.ID] = *m
	return nil
}

func (s *Store) DeleteMaintenance(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.maintenance[id]; !ok {
		return notFound("maintenance", id)
	}
	delete(s.state.maintenance, id)
	return nil
}

func (s *Store) CountOpenMaintenance(ctx context.Context, deviceID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.state.maintenance {
		if m.DeviceID == deviceID && m.Status.Open() {
			n++
		}
	}
	return n, nil
}

// ---------- Reports ----------

func (s *Store) CurrentlyRented(ctx context.Context) ([]models.RentedDeviceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.RentedDeviceRow
	for _, r := range s.state.rentals {
		if !r.IsActive() {
			continue
		}
		dev := s.state.devices[r.DeviceID]
		st := s.state.staff[r.StaffID]
		dep := s.state.departments[r.DepartmentID]
		rows = append(rows, models.RentedDeviceRow{
			RentalID:       r.ID,
			DeviceID:       dev.ID,
			DeviceName:     dev.Name,
			DeviceType:     dev.Type,
			StaffName:      st.FullName(),
			DepartmentName: dep.Name,
			RentStartDate:  r.RentStartDate,
			RentEndDate:    r.RentEndDate,
			Purpose:        r.Purpose,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RentEndDate.Equal(rows[j].RentEndDate) {
			return rows[i].RentalID < rows[j].RentalID
		}
		return rows[i].RentEndDate.Before(rows[j].RentEndDate)
	})
	return rows, nil
}

func (s *Store) DevicesNeedingMaintenance(ctx context.Context, cutoff models.Date) ([]models.MaintenanceDueRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.MaintenanceDueRow
	for _, d := range s.state.devices {
		if d.Status != models.DeviceAvailable {
			continue
		}
		var last *models.Date
		for _, m := range s.state.maintenance {
			if m.DeviceID != d.ID || m.Status != models.MaintenanceCompleted || m.EndDate == nil {
				continue
			}
			if last == nil || m.EndDate.After(*last) {
				end := *m.EndDate
				last = &end
			}
		}
		if last != nil && !last.Before(cutoff) {
			continue
		}
		rows = append(rows, models.MaintenanceDueRow{
			DeviceID:            d.ID,
			DeviceName:          d.Name,
			DeviceType:          d.Type,
			Manufacturer:        d.Manufacturer,
			CurrentLocation:     d.CurrentLocation,
			LastMaintenanceDate: last,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DeviceName < rows[j].DeviceName })
	return rows, nil
}

func (s *Store) MaintenanceHistory(ctx context.Context, deviceID uint) ([]models.MaintenanceHistoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.MaintenanceHistoryRow
	for _, m := range s.state.maintenance {
		if deviceID != 0 && m.DeviceID != deviceID {
			continue
		}
		dev := s.state.devices[m.DeviceID]
		tech := s.state.staff[m.StaffID]
		rows = append(rows, models.MaintenanceHistoryRow{
			MaintenanceID:   m.ID,
			DeviceID:        m.DeviceID,
			DeviceName:      dev.Name,
			DeviceType:      dev.Type,
			TechnicianName:  tech.FullName(),
			MaintenanceType: m.MaintenanceType,
			StartDate:       m.StartDate,
			EndDate:         m.EndDate,
			Cost:            m.Cost,
			Status:          m.Status,
			Description:     m.Description,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MaintenanceID > rows[j].MaintenanceID })
	return rows, nil
}
