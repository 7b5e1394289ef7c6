package push

import (
	"context"
	"time"

	"BobaLink/pkg/config"
	"BobaLink/pkg/monitor"

	"go.uber.org/zap"
)

// Dispatcher fans PushMessages out to their targets on a worker pool so a
// slow or dead recipient channel can never block the caller (the ledger
// write has already committed by the time a message reaches here).
type Dispatcher struct {
	reg         *Registry
	taskCh      chan PushTask
	sendTimeout time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	mon         *monitor.Monitor
}

func NewDispatcher(reg *Registry, cfg *config.DispatcherConfig) *Dispatcher {
	workers := 4
	queueSize := 1024
	sendTimeout := 5 * time.Second
	if cfg != nil {
		if cfg.WorkerCount > 0 {
			workers = cfg.WorkerCount
		}
		if cfg.TaskQueueSize > 0 {
			queueSize = cfg.TaskQueueSize
		}
		if cfg.SendTimeoutMs > 0 {
			sendTimeout = time.Duration(cfg.SendTimeoutMs) * time.Millisecond
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		reg:         reg,
		taskCh:      make(chan PushTask, queueSize),
		sendTimeout: sendTimeout,
		ctx:         ctx,
		cancel:      cancel,
		mon:         monitor.NewMonitor("push_ws", 1000, 10000, 60000),
	}
	d.mon.Run()
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

// Dispatch enqueues one delivery task per target. It never blocks the
// caller: a full queue drops the task (delivery is best-effort, the ledger
// stays the durable source of truth).
func (d *Dispatcher) Dispatch(msg PushMessage) {
	clientMsg := ClientMessage{
		Kind:     msg.Kind,
		SenderID: msg.SenderID,
		Payload:  msg.Payload,
	}
	for _, uid := range msg.TargetIDs {
		select {
		case d.taskCh <- PushTask{UserID: uid, Msg: clientMsg}:
		default:
			zap.L().Warn("push task queue full, dropping task",
				zap.Int64("userID", uid), zap.String("kind", msg.Kind))
		}
	}
}

func (d *Dispatcher) worker() {
	for {
		select {
		case <-d.ctx.Done():
			return
		case task := <-d.taskCh:
			t := monitor.NewTask()
			delivered := d.reg.Send(task.UserID, d.sendTimeout, task.Msg)
			d.mon.CompleteTask(t, delivered)
			if !delivered {
				// 用户不在线或连接已坏，尽力推送失败即放弃
				zap.L().Debug("push not delivered",
					zap.Int64("userID", task.UserID), zap.String("kind", task.Msg.Kind))
			}
		}
	}
}

// Stop tears the worker pool down. Queued tasks are abandoned.
func (d *Dispatcher) Stop() {
	d.cancel()
}
