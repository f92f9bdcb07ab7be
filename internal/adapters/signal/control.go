package signal

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendReply(conn, NewPong())
}
