package commands

import (
	"fmt"
	"strconv"

	"github.com/tu10ng/vrpmock/internal/vrp"
)

func systemView(s *vrp.Session, args map[string]string) string {
	return s.EnterSystemView()
}

func quit(s *vrp.Session, args map[string]string) string {
	return s.Quit()
}

func returnToUser(s *vrp.Session, args map[string]string) string {
	s.ReturnToUser()
	return ""
}

func sysname(s *vrp.Session, args map[string]string) string {
	return s.SetHostname(args["name"])
}

func screenLength(s *vrp.Session, args map[string]string) string {
	length, err := strconv.Atoi(args["length"])
	if err != nil {
		return "Error: Invalid screen-length value"
	}
	return s.SetScreenLength(length, args["temporary"] != "")
}

func enterInterface(s *vrp.Session, args map[string]string) string {
	return s.EnterInterface(args["name"])
}

func enterAAA(s *vrp.Session, args map[string]string) string {
	return s.EnterAAA()
}

func enterACL(s *vrp.Session, args map[string]string) string {
	number, err := strconv.Atoi(args["number"])
	if err != nil {
		return "Error: Invalid ACL number (2000-3999)"
	}
	return s.EnterACL(number)
}

func enterVLAN(s *vrp.Session, args map[string]string) string {
	id, err := strconv.Atoi(args["id"])
	if err != nil {
		return "Error: Invalid VLAN ID (1-4094)"
	}
	return s.EnterVLAN(id)
}

// undo is acknowledged without effect; the mock carries no undoable
// configuration beyond AAA local-users, which register their own pattern.
func undo(s *vrp.Session, args map[string]string) string {
	return ""
}

func save(s *vrp.Session, args map[string]string) string {
	return `The current configuration will be written to the device.
Are you sure to continue?[Y/N]:y
Now saving the current configuration to the slot 0....
Save the configuration successfully.`
}

func reboot(s *vrp.Session, args map[string]string) string {
	return `Info: The system is comparing the configuration, please wait.
Warning: All the configuration will be saved to the next startup configuration.
Continue?[Y/N]:`
}

func ping(s *vrp.Session, args map[string]string) string {
	host := args["host"]
	return fmt.Sprintf(`  PING %[1]s: 56  data bytes, press CTRL_C to break
    Reply from %[1]s: bytes=56 Sequence=1 ttl=255 time=1 ms
    Reply from %[1]s: bytes=56 Sequence=2 ttl=255 time=1 ms
    Reply from %[1]s: bytes=56 Sequence=3 ttl=255 time=1 ms
    Reply from %[1]s: bytes=56 Sequence=4 ttl=255 time=1 ms
    Reply from %[1]s: bytes=56 Sequence=5 ttl=255 time=1 ms

  --- %[1]s ping statistics ---
    5 packet(s) transmitted
    5 packet(s) received
    0.00%% packet loss
    round-trip min/avg/max = 1/1/1 ms`, host)
}

var configViews = []vrp.View{vrp.ViewSystem, vrp.ViewInterface, vrp.ViewAAA, vrp.ViewACL, vrp.ViewVLAN}

func registerSystemCommands(r *vrp.Registry) {
	r.Register(`^system-view$`, vrp.HandlerFunc(systemView), vrp.ViewUser)
	r.Register(`^quit$`, vrp.HandlerFunc(quit))
	r.Register(`^return$`, vrp.HandlerFunc(returnToUser), configViews...)

	// Registered in every view: the handler reports the view-precondition
	// error in-band rather than falling through to "unrecognized command".
	r.Register(`^sysname\s+(?P<name>\S+)$`, vrp.HandlerFunc(sysname))

	r.Register(`^screen-length\s+(?P<length>\d+)(?:\s+(?P<temporary>temporary))?$`,
		vrp.HandlerFunc(screenLength), vrp.ViewUser, vrp.ViewSystem)
	r.Register(`^interface\s+(?P<name>\S+)$`, vrp.HandlerFunc(enterInterface),
		vrp.ViewSystem, vrp.ViewInterface)
	r.Register(`^aaa$`, vrp.HandlerFunc(enterAAA), vrp.ViewSystem)
	r.Register(`^acl\s+(?P<number>\d+)$`, vrp.HandlerFunc(enterACL), vrp.ViewSystem)
	r.Register(`^vlan\s+(?P<id>\d+)$`, vrp.HandlerFunc(enterVLAN), vrp.ViewSystem)
	r.Register(`^undo\s+(?P<command>.+)$`, vrp.HandlerFunc(undo), configViews...)
	r.Register(`^save(?:\s+(?P<filename>\S+))?$`, vrp.HandlerFunc(save), vrp.ViewUser)
	r.Register(`^reboot$`, vrp.HandlerFunc(reboot), vrp.ViewUser)
	r.Register(`^ping\s+(?P<host>\S+)$`, vrp.HandlerFunc(ping), vrp.ViewUser)
}
