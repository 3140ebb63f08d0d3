package log

import "log/slog"

func MachineID(id string) slog.Attr {
	return slog.String("machine_id", id)
}

func Serial(n uint64) slog.Attr {
	return slog.Uint64("serial", n)
}

func State[T ~string](s T) slog.Attr {
	return slog.String("state", string(s))
}

func Record[T ~string](name T) slog.Attr {
	return slog.String("record", string(name))
}

func Loop(n uint64) slog.Attr {
	return slog.Uint64("loop", n)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
