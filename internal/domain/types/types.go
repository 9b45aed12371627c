package types

type ServiceMode string

// NavService serves the HTTP/WebSocket API backed by postgres and rabbitmq.
// SimulateMode runs one drive headless and prints snapshots as JSON.
const (
	NavService   ServiceMode = "nav-service"
	SimulateMode ServiceMode = "simulate"
)

func (m ServiceMode) String() string {
	return string(m)
}

// DriveState is the lifecycle state of a drive simulation.
type DriveState string

const (
	DriveIdle    DriveState = "IDLE"
	DriveRunning DriveState = "RUNNING"
	DriveArrived DriveState = "ARRIVED"
	// DriveStopped is only used for persisted drives ended by the driver.
	DriveStopped DriveState = "STOPPED"
)

func (s DriveState) String() string {
	return string(s)
}

// Tier is the display tier of a speed percentage.
type Tier string

const (
	TierNormal  Tier = "normal"
	TierDanger  Tier = "danger"
	TierExtreme Tier = "extreme"
)

type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RoleDriver    UserRole = "DRIVER"
	RoleAnonymous UserRole = "ANONYMOUS"
)

// CatalogDriver selects the destination catalog backend.
type CatalogDriver string

const (
	CatalogMemory CatalogDriver = "memory"
	CatalogSQLite CatalogDriver = "sqlite"
)
