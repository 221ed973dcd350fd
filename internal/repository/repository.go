package repository

import (
	"time"

	"github.com/guardline/workforce-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// ListOpenWithDueDate returns every non-done task that has a due date,
	// across all organizations. The escalation sweep iterates this set.
	ListOpenWithDueDate() ([]models.Task, error)

	// UpdateEscalationStatus persists only the escalation status of a task
	UpdateEscalationStatus(taskID uint64, status models.EscalationStatus) error

	// AssignUsers assigns multiple users to a task
	AssignUsers(taskID uint64, userIDs []uint64) error

	// UnassignUsers removes user assignments from a task
	UnassignUsers(taskID uint64, userIDs []uint64) error

	// CountUsersByIDs counts how many of the given user IDs exist in the organization
	CountUsersByIDs(userIDs []uint64, organizationID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OrganizationIDs []uint64
	Status          *models.TaskStatus
	Priority        *models.TaskPriority
	CreatorID       *uint64
	AssignedUserID  *uint64
	DueDateFrom     *time.Time
	DueDateTo       *time.Time
	SortByDueDate   bool
	Page            int
	PageSize        int
}

// LocationRepository defines the interface for geofence location data access
type LocationRepository interface {
	// Create creates a new location
	Create(location *models.Location) error

	// FindByID finds a location by ID
	FindByID(id uint64) (*models.Location, error)

	// ListForUser returns the locations assigned to a user, in insertion order
	ListForUser(userID uint64) ([]models.Location, error)

	// ListAll returns every location in the system, in insertion order
	ListAll() ([]models.Location, error)

	// Assign links a user to a location. Safe to call when the pair
	// already exists.
	Assign(userID, locationID uint64) error
}

// AttendanceRepository defines the interface for attendance event data access
type AttendanceRepository interface {
	// Append stores a new attendance event. Events are never updated.
	Append(event *models.AttendanceEvent) error

	// ListForUserOnDate returns a user's events for the calendar day
	// containing date, ordered by timestamp ascending.
	ListForUserOnDate(userID uint64, date time.Time) ([]models.AttendanceEvent, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create stores a new notification
	Create(notification *models.Notification) error

	// ListForUser returns a user's notifications, newest first
	ListForUser(userID uint64, limit int) ([]models.Notification, error)

	// MarkRead flags a notification as read
	MarkRead(notificationID, userID uint64) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListManagersAtLocation returns users with a manager role in the
	// organization who are assigned to the given location. This is the
	// "nearby managers" query behind check-in fan-out.
	ListManagersAtLocation(organizationID, locationID uint64) ([]models.User, error)
}
