// Copyright (c) 2024 Neomantra Corp

package eobi

import "fmt"

var (
	ErrMalformedSnapshotLoop = fmt.Errorf("malformed snapshot loop")
	ErrEmptyPacket           = fmt.Errorf("packet carries no messages")
)

func unknownTemplateError(t TemplateID) error {
	return fmt.Errorf("unknown template id %d (%s)", uint16(t), t)
}
