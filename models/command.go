package models

// CommandType enumerates the recognized command vocabulary plus "unrecognized"
type CommandType string

const (
	CommandConfigure      CommandType = "configure"
	CommandCreateTestCase CommandType = "create_testcase"
	CommandListTestCases  CommandType = "list_testcases"
	CommandShowTestCase   CommandType = "show_testcase"
	CommandCreateDefect   CommandType = "create_defect"
	CommandHelp           CommandType = "help"
	CommandUnrecognized   CommandType = "unrecognized"
)

// Command is the classified form of one inbound command turn.
// Exactly one variant applies; dispatch is a single switch on Type.
type Command struct {
	Type      CommandType
	ProjectID string // configure
	ShortID   string // show testcase
	Page      int    // list testcases, 1-based
	Raw       string // command text after the trigger, mentions stripped
}

// ConsumesContext reports whether the command reads the cached precursor message
func (c Command) ConsumesContext() bool {
	return c.Type == CommandCreateTestCase || c.Type == CommandCreateDefect
}

// Permission keywords checked against a user's effective permission set
const (
	PermissionProjectAdmin   = "project.admin"
	PermissionTestCaseCreate = "testcase.create"
	PermissionTestCaseRead   = "testcase.read"
	PermissionDefectCreate   = "defect.create"
)

// RequiredPermission returns the permission keyword a command needs, or ""
// when membership alone is enough.
func (c Command) RequiredPermission() string {
	switch c.Type {
	case CommandConfigure:
		return PermissionProjectAdmin
	case CommandCreateTestCase:
		return PermissionTestCaseCreate
	case CommandListTestCases, CommandShowTestCase:
		return PermissionTestCaseRead
	case CommandCreateDefect:
		return PermissionDefectCreate
	case CommandHelp, CommandUnrecognized:
		return ""
	default:
		return ""
	}
}
