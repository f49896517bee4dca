package appmessage

// MsgDoneHeaders tells the requesting peer that the last of the requested
// headers has been sent. It carries no payload.
type MsgDoneHeaders struct {
	baseMessage
}

// Command returns the protocol command of this message
func (msg *MsgDoneHeaders) Command() MessageCommand {
	return CmdDoneHeaders
}

// NewMsgDoneHeaders builds a DoneHeaders message
func NewMsgDoneHeaders() *MsgDoneHeaders {
	return &MsgDoneHeaders{}
}
