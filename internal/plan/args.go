package plan

import (
	"strconv"

	"github.com/meshworks/rnode/internal/config"
)

// RigctldArgs builds the rigctld command line for one FreeDV PTT block.
// Flags follow the Hamlib rigctld manual: -m rig model, -t listen port,
// -r CAT serial device, -s baud rate.
func RigctldArgs(ptt config.FreeDVPTT) []string {
	args := []string{"rigctld", "-m", strconv.Itoa(ptt.RigModel), "-t", strconv.Itoa(ptt.RigctldPort)}
	if ptt.RigDevice != "" {
		args = append(args, "-r", ptt.RigDevice)
	}
	if ptt.RigSpeed != 0 {
		args = append(args, "-s", strconv.Itoa(ptt.RigSpeed))
	}
	return args
}

// FreedvArgs builds the freedvtnc2 command line. Options matching the
// daemon's own defaults are omitted. The interactive prompt is always
// disabled; a supervised child must not read the terminal.
func FreedvArgs(iface config.FreeDVInterface) []string {
	args := []string{
		"freedvtnc2",
		"--input-device", iface.InputDevice,
		"--output-device", iface.OutputDevice,
		"--mode", iface.Mode,
		"--kiss-tcp-port", strconv.Itoa(iface.KissPort),
		"--kiss-tcp-address", "127.0.0.1",
	}
	if iface.PTT.Type == "rigctld" {
		args = append(args, "--rigctld-host", iface.PTT.RigctldHost,
			"--rigctld-port", strconv.Itoa(iface.PTT.RigctldPort))
	}
	if iface.PTTOnDelayMS != 200 {
		args = append(args, "--ptt-on-delay-ms", strconv.Itoa(iface.PTTOnDelayMS))
	}
	if iface.PTTOffDelayMS != 100 {
		args = append(args, "--ptt-off-delay-ms", strconv.Itoa(iface.PTTOffDelayMS))
	}
	if iface.OutputVolume != 0 {
		args = append(args, "--output-volume", strconv.Itoa(iface.OutputVolume))
	}
	if iface.FollowMode {
		args = append(args, "--follow")
	}
	if iface.MaxPacketsCombined != 1 {
		args = append(args, "--max-packets-combined", strconv.Itoa(iface.MaxPacketsCombined))
	}
	args = append(args, "--no-cli")
	return args
}
