package model

// Message is one entry on a communication link.
type Message struct {
	Name      string
	Direction MessageDirection
}

// CommunicationLink is an undirected link carrying an ordered list of
// directed messages. Directions are relative to the link's source and target.
type CommunicationLink struct {
	ElementBase
	Connection
	Messages []Message
}

func (l *CommunicationLink) Symmetric() bool { return true }
