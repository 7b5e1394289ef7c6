package snowflake

import (
	"time"

	sf "github.com/bwmarrin/snowflake"
)

var node *sf.Node

// Init configures the snowflake node. startTime anchors the epoch so IDs stay
// small; machineID must be unique per deployed instance.
func Init(startTime string, machineID int64) (err error) {
	var st time.Time
	st, err = time.Parse("2006-01-02", startTime)
	if err != nil {
		return
	}
	sf.Epoch = st.UnixNano() / 1000000
	node, err = sf.NewNode(machineID)
	return
}

// GenID returns a new unique int64 ID. IDs are never reused.
func GenID() int64 {
	return node.Generate().Int64()
}
