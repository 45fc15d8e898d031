package services

import (
	"context"
	"net/mail"
	"strings"

	"Gin_postgres_redis_equipment_rent/models"
)

// ---------- Departments ----------

type DepartmentInput struct {
	Name          string `json:"name" binding:"required,max=255"`
	Location      string `json:"location" binding:"max=255"`
	Phone         string `json:"phone" binding:"max=20"`
	ContactPerson string `json:"contactPerson" binding:"max=255"`
}

type DepartmentPatch struct {
	Name          *string `json:"name" binding:"omitempty,max=255"`
	Location      *string `json:"location" binding:"omitempty,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=20"`
	ContactPerson *string `json:"contactPerson" binding:"omitempty,max=255"`
}

func (s *Service) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	return s.store.FindDepartment(ctx, id)
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) (*models.Department, error) {
	d := &models.Department{
		Name:          strings.TrimSpace(in.Name),
		Location:      strings.TrimSpace(in.Location),
		Phone:         strings.TrimSpace(in.Phone),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
	}
	if d.Name == "" {
		return nil, invalid("name", "required")
	}
	if err := s.store.CreateDepartment(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id uint, p DepartmentPatch) (*models.Department, error) {
	d, err := s.store.FindDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Location != nil {
		d.Location = strings.TrimSpace(*p.Location)
	}
	if p.Phone != nil {
		d.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.ContactPerson != nil {
		d.ContactPerson = strings.TrimSpace(*p.ContactPerson)
	}
	if d.Name == "" {
		return nil, invalid("name", "required")
	}
	if err := s.store.UpdateDepartment(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id uint) error {
	return s.store.DeleteDepartment(ctx, id)
}

// ---------- Staff ----------

type StaffInput struct {
	FirstName    string      `json:"firstName" binding:"required,max=255"`
	LastName     string      `json:"lastName" binding:"required,max=255"`
	Role         models.Role `json:"role" binding:"required"`
	Email        string      `json:"email" binding:"required,email,max=255"`
	Contact      string      `json:"contact" binding:"max=20"`
	DepartmentID *uint       `json:"departmentId"`
}

type StaffPatch struct {
	FirstName    *string      `json:"firstName" binding:"omitempty,max=255"`
	LastName     *string      `json:"lastName" binding:"omitempty,max=255"`
	Role         *models.Role `json:"role"`
	Email        *string      `json:"email" binding:"omitempty,email,max=255"`
	Contact      *string      `json:"contact" binding:"omitempty,max=20"`
	DepartmentID *uint        `json:"departmentId"`
}

func (s *Service) ListStaff(ctx context.Context) ([]models.Staff, error) {
	return s.store.ListStaff(ctx)
}

func (s *Service) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	return s.store.FindStaff(ctx, id)
}

func (s *Service) FindStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return s.store.FindStaffByEmail(ctx, normalizeEmail(email))
}

func (s *Service) TouchStaffSeen(ctx context.Context, id uint) error {
	return s.store.TouchStaffSeen(ctx, id)
}

func (s *Service) CountTechnicians(ctx context.Context) (int64, error) {
	return s.store.CountTechnicians(ctx)
}

func (s *Service) CreateStaff(ctx context.Context, in StaffInput) (*models.Staff, error) {
	st := &models.Staff{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
		Email:        normalizeEmail(in.Email),
		Contact:      strings.TrimSpace(in.Contact),
		DepartmentID: in.DepartmentID,
	}
	if err := s.validateStaff(ctx, st); err != nil {
		return nil, err
	}
	if err := s.store.CreateStaff(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id uint, p StaffPatch) (*models.Staff, error) {
	st, err := s.store.FindStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FirstName != nil {
		st.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		st.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Role != nil {
		st.Role = *p.Role
	}
	if p.Email != nil {
		st.Email = normalizeEmail(*p.Email)
	}
	if p.Contact != nil {
		st.Contact = strings.TrimSpace(*p.Contact)
	}
	if p.DepartmentID != nil {
		st.DepartmentID = p.DepartmentID
	}
	if err := s.validateStaff(ctx, st); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStaff(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) DeleteStaff(ctx context.Context, id uint) error {
	return s.store.DeleteStaff(ctx, id)
}

func (s *Service) validateStaff(ctx context.Context, st *models.Staff) error {
	v := &ValidationError{}
	if st.FirstName == "" {
		v.Add("firstName", "required")
	}
	if st.LastName == "" {
		v.Add("lastName", "required")
	}
	if !st.Role.Valid() {
		v.Add("role", "must be Staff or Technician")
	}
	if _, err := mail.ParseAddress(st.Email); err != nil {
		v.Add("email", "must be a valid email address")
	}
	if err := v.Err(); err != nil {
		return err
	}
	if st.DepartmentID != nil {
		if _, err := s.store.FindDepartment(ctx, *st.DepartmentID); err != nil {
			return referenceError("departmentId", err)
		}
	}
	return nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// ---------- Devices ----------

// DeviceInput 不含 status：新设备总是 Available，之后只能经状态机变化
type DeviceInput struct {
	DeviceName      string       `json:"deviceName" binding:"required,max=255"`
	DeviceType      string       `json:"deviceType" binding:"required,max=100"`
	CurrentLocation string       `json:"currentLocation" binding:"max=255"`
	PurchaseDate    *models.Date `json:"purchaseDate"`
	Manufacturer    string       `json:"manufacturer" binding:"max=255"`
	Model           string       `json:"model" binding:"max=255"`
	SerialNumber    string       `json:"serialNumber" binding:"max=255"`
}

type DevicePatch struct {
	DeviceName      *string      `json:"deviceName" binding:"omitempty,max=255"`
	DeviceType      *string      `json:"deviceType" binding:"omitempty,max=100"`
	CurrentLocation *string      `json:"currentLocation" binding:"omitempty,max=255"`
	PurchaseDate    *models.Date `json:"purchaseDate"`
	Manufacturer    *string      `json:"manufacturer" binding:"omitempty,max=255"`
	Model           *string      `json:"model" binding:"omitempty,max=255"`
	SerialNumber    *string      `json:"serialNumber" binding:"omitempty,max=255"`
}

func (s *Service) ListDevices(ctx context.Context, status models.DeviceStatus) ([]models.Device, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", "must be one of Available, Rented, Under Maintenance")
	}
	return s.store.ListDevices(ctx, status)
}

func (s *Service) GetDevice(ctx context.Context, id uint) (*models.Device, error) {
	return s.store.FindDevice(ctx, id)
}

func (s *Service) CreateDevice(ctx context.Context, in DeviceInput) (*models.Device, error) {
	d := &models.Device{
		Name:            strings.TrimSpace(in.DeviceName),
		Type:            strings.TrimSpace(in.DeviceType),
		Status:          models.DeviceAvailable,
		CurrentLocation: strings.TrimSpace(in.CurrentLocation),
		PurchaseDate:    in.PurchaseDate,
		Manufacturer:    strings.TrimSpace(in.Manufacturer),
		Model:           strings.TrimSpace(in.Model),
		SerialNumber:    strings.TrimSpace(in.SerialNumber),
	}
	if err := validateDevice(d); err != nil {
		return nil, err
	}
	if err := s.store.CreateDevice(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) UpdateDevice(ctx context.Context, id uint, p DevicePatch) (*models.Device, error) {
	d, err := s.store.FindDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	setTrimmed := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setTrimmed(&d.Name, p.DeviceName)
	setTrimmed(&d.Type, p.DeviceType)
	setTrimmed(&d.CurrentLocation, p.CurrentLocation)
	setTrimmed(&d.Manufacturer, p.Manufacturer)
	setTrimmed(&d.Model, p.Model)
	setTrimmed(&d.SerialNumber, p.SerialNumber)
	if p.PurchaseDate != nil {
		pd := *p.PurchaseDate
		d.PurchaseDate = &pd
	}
	if err := validateDevice(d); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDevice(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) DeleteDevice(ctx context.Context, id uint) error {
	return s.store.DeleteDevice(ctx, id)
}

func (s *Service) DeviceStatusLog(ctx context.Context, deviceID uint) ([]models.DeviceStatusLog, error) {
	if _, err := s.store.FindDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.store.ListStatusLog(ctx, deviceID)
}

func validateDevice(d *models.Device) error {
	v := &ValidationError{}
	if d.Name == "" {
		v.Add("deviceName", "required")
	}
	if d.Type == "" {
		v.Add("deviceType", "required")
	}
	return v.Err()
}
