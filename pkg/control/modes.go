package control

// RotationMode selects who writes DesiredRotation
type RotationMode int

const (
	RotationOff RotationMode = iota
	RotationAimAssist
	RotationFullDamping
)

var rotationModeNext = map[RotationMode]RotationMode{
	RotationOff:         RotationAimAssist,
	RotationAimAssist:   RotationFullDamping,
	RotationFullDamping: RotationOff,
}

var rotationModeNames = map[RotationMode]string{
	RotationOff:         "off",
	RotationAimAssist:   "aim_assist",
	RotationFullDamping: "full_damping",
}

// Next returns the mode that follows m in the toggle cycle
func (m RotationMode) Next() RotationMode {
	if next, ok := rotationModeNext[m]; ok {
		return next
	}
	return RotationOff
}

func (m RotationMode) String() string {
	if name, ok := rotationModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// MovementMode selects who writes DesiredMovement
type MovementMode int

const (
	MovementOff MovementMode = iota
	MovementFullDamping
)

var movementModeNext = map[MovementMode]MovementMode{
	MovementOff:         MovementFullDamping,
	MovementFullDamping: MovementOff,
}

var movementModeNames = map[MovementMode]string{
	MovementOff:         "off",
	MovementFullDamping: "full_damping",
}

// Next returns the mode that follows m in the toggle cycle
func (m MovementMode) Next() MovementMode {
	if next, ok := movementModeNext[m]; ok {
		return next
	}
	return MovementOff
}

func (m MovementMode) String() string {
	if name, ok := movementModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// CameraMode is the camera view selected for the player
type CameraMode int

const (
	CameraAbsolute CameraMode = iota
	CameraRelative
	CameraFirstPerson
)

var cameraModeNext = map[CameraMode]CameraMode{
	CameraAbsolute:    CameraRelative,
	CameraRelative:    CameraFirstPerson,
	CameraFirstPerson: CameraAbsolute,
}

var cameraModeNames = map[CameraMode]string{
	CameraAbsolute:    "absolute",
	CameraRelative:    "relative",
	CameraFirstPerson: "first_person",
}

// Next returns the mode that follows m in the toggle cycle
func (m CameraMode) Next() CameraMode {
	if next, ok := cameraModeNext[m]; ok {
		return next
	}
	return CameraAbsolute
}

func (m CameraMode) String() string {
	if name, ok := cameraModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Settings holds a ship's stabilization modes. The zero value is all off.
type Settings struct {
	Rotation RotationMode
	Movement MovementMode
}

// Apply advances the modes for any toggle pressed this tick and reports
// which groups changed.
func (s *Settings) Apply(pressed ActionSet) (rotationChanged, movementChanged bool) {
	if pressed.Has(ToggleRotationMode) {
		s.Rotation = s.Rotation.Next()
		rotationChanged = true
	}
	if pressed.Has(ToggleMovementMode) {
		s.Movement = s.Movement.Next()
		movementChanged = true
	}
	return rotationChanged, movementChanged
}
