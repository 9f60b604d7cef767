// Package profiling lets embedders measure how long each IMAP command takes to execute.
package profiling

const (
	CmdTypeCapability = iota
	CmdTypeNoop
	CmdTypeCheck
	CmdTypeLogin
	CmdTypeLogout
	CmdTypeSelect
	CmdTypeExamine
	CmdTypeUnselect
	CmdTypeClose
	CmdTypeExpunge
	CmdTypeUIDExpunge
	CmdTypeTotal
)

func CmdTypeToString(cmdType int) string {
	switch cmdType {
	case CmdTypeCapability:
		return "CAPABILITY "
	case CmdTypeNoop:
		return "NOOP       "
	case CmdTypeCheck:
		return "CHECK      "
	case CmdTypeLogin:
		return "LOGIN      "
	case CmdTypeLogout:
		return "LOGOUT     "
	case CmdTypeSelect:
		return "SELECT     "
	case CmdTypeExamine:
		return "EXAMINE    "
	case CmdTypeUnselect:
		return "UNSELECT   "
	case CmdTypeClose:
		return "CLOSE      "
	case CmdTypeExpunge:
		return "EXPUNGE    "
	case CmdTypeUIDExpunge:
		return "UID EXPUNGE"
	default:
		return "Unknown    "
	}
}

// CmdProfiler is the interface that can be used to perform measurements related to the execution
// scope of incoming IMAP commands.
type CmdProfiler interface {
	// Start will be called once the command has been received and interpreted.
	Start(cmdType int)
	// Stop will be called once the command has finished executing.
	Stop(cmdType int)
}

// CmdProfilerBuilder is the interface through which an instance of the CmdProfiler gets created. One of these will be
// created for each connecting IMAP client.
type CmdProfilerBuilder interface {
	// New creates a new CmdProfiler instance.
	New() CmdProfiler

	// Collect will be called when the IMAP client has disconnected/logged out.
	Collect(profiler CmdProfiler)
}

// NullCmdProfiler represents a null implementation of CmdProfiler.
type NullCmdProfiler struct{}

func (*NullCmdProfiler) Start(int) {}

func (*NullCmdProfiler) Stop(int) {}

type NullCmdExecProfilerBuilder struct{}

func (*NullCmdExecProfilerBuilder) New() CmdProfiler {
	return &NullCmdProfiler{}
}

func (*NullCmdExecProfilerBuilder) Collect(CmdProfiler) {}
