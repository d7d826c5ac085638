package commands

import (
	"fmt"
	"strings"

	"github.com/tu10ng/vrpmock/internal/vrp"
)

const versionTemplate = `Huawei Versatile Routing Platform Software
VRP (R) software, Version 8.210 (V800R021C00SPC100)
Copyright (C) 2012-2024 Huawei Technologies Co., Ltd.
HUAWEI {{ .Hostname }} uptime is 30 days, 2 hours, 15 minutes

MPU 0(Master) : uptime is 30 days, 2 hours, 15 minutes
SDRAM Memory Size   : 4096 M bytes
Flash Memory Size   : 2048 M bytes
MPU version information :
1. PCB    Version : CX22EMGEA REV B
2. MAB    Version : 1
3. Board  Type    : CR2DEMGEA10
4. CPLD1  Version : 100
5. BootROM Version : 04.79`

const deviceTemplate = `{{ .Hostname }}'s Device status:
Slot  Sub  Type             Online    Power    Register    Status    Role
-------------------------------------------------------------------------------
0     -    CR2DEMGEA10      Present   PowerOn  Registered  Normal    Master
1     -    CR2DEMGEA10      Present   PowerOn  Registered  Normal    Slave
3     -    CR2DLPUFA        Present   PowerOn  Registered  Normal    NA
PWR1  -    PAC-600WA        Present   PowerOn  Registered  Normal    NA
PWR2  -    PAC-600WA        Present   PowerOn  Registered  Normal    NA
FAN1  -    FAN-040A         Present   PowerOn  Registered  Normal    NA`

const clockTemplate = `{{ now | date "2006-01-02 15:04:05" }}
{{ now | date "Monday" }}
Time Zone : UTC`

const interfaceBrief = `Interface                   PHY      Protocol  InUti OutUti   inErrors  outErrors
GigabitEthernet0/0/1        up       up        0.01%  0.01%          0          0
GigabitEthernet0/0/2        up       up        0.02%  0.01%          0          0
GigabitEthernet0/0/3        down     down         0%     0%          0          0
GigabitEthernet0/0/4        down     down         0%     0%          0          0
MEth0/0/1                   up       up        0.01%  0.01%          0          0
NULL0                       up       up(s)        0%     0%          0          0
LoopBack0                   up       up(s)        0%     0%          0          0
Vlanif100                   up       up           0%     0%          0          0`

const interfaceSummary = `GigabitEthernet0/0/1 current state : UP
GigabitEthernet0/0/2 current state : UP
GigabitEthernet0/0/3 current state : DOWN
GigabitEthernet0/0/4 current state : DOWN
MEth0/0/1 current state : UP
NULL0 current state : UP
LoopBack0 current state : UP
Vlanif100 current state : UP`

const ipInterfaceBrief = `*down: administratively down
^down: standby
(l): loopback
(s): spoofing
(E): E-Trunk down
The number of interface that is UP in Physical is 5
The number of interface that is DOWN in Physical is 2
The number of interface that is UP in Protocol is 5
The number of interface that is DOWN in Protocol is 2

Interface                         IP Address/Mask      Physical   Protocol
GigabitEthernet0/0/1              10.0.0.1/24          up         up
GigabitEthernet0/0/2              10.0.1.1/24          up         up
GigabitEthernet0/0/3              unassigned           down       down
GigabitEthernet0/0/4              unassigned           down       down
LoopBack0                         1.1.1.1/32           up         up(s)
MEth0/0/1                         192.168.1.1/24       up         up
Vlanif100                         192.168.100.1/24     up         up`

const routingTable = `Route Flags: R - relay, D - download to fib, T - to vpn-instance, B - black hole route
------------------------------------------------------------------------------
Routing Table : _public_
         Destinations : 8        Routes : 8

Destination/Mask    Proto   Pre  Cost        Flags NextHop         Interface

      0.0.0.0/0     Static  60   0            RD   10.0.0.254      GigabitEthernet0/0/1
      1.1.1.1/32    Direct  0    0             D   127.0.0.1       LoopBack0
     10.0.0.0/24    Direct  0    0             D   10.0.0.1        GigabitEthernet0/0/1
     10.0.0.1/32    Direct  0    0             D   127.0.0.1       GigabitEthernet0/0/1
     10.0.1.0/24    Direct  0    0             D   10.0.1.1        GigabitEthernet0/0/2
     10.0.1.1/32    Direct  0    0             D   127.0.0.1       GigabitEthernet0/0/2
  192.168.1.0/24    Direct  0    0             D   192.168.1.1     MEth0/0/1
192.168.100.0/24    Direct  0    0             D   192.168.100.1   Vlanif100`

func displayVersion(s *vrp.Session, args map[string]string) string {
	return Render(versionTemplate, s)
}

func displayDevice(s *vrp.Session, args map[string]string) string {
	return Render(deviceTemplate, s)
}

func displayClock(s *vrp.Session, args map[string]string) string {
	return Render(clockTemplate, nil)
}

func displayInterface(s *vrp.Session, args map[string]string) string {
	// A bare trailing "brief" is captured by the greedy name group, so it
	// has to be recognized here rather than in the pattern.
	if args["brief"] != "" || strings.EqualFold(args["name"], "brief") {
		return interfaceBrief
	}

	if name := args["name"]; name != "" {
		normalized := vrp.NormalizeInterfaceName(name)
		if normalized == "" {
			normalized = name
		}
		return fmt.Sprintf(`%s current state : UP
Line protocol current state : UP
Description:
Route Port,The Maximum Transmit Unit is 1500
Internet Address is 10.0.0.1/24
IP Sending Frames' Format is PKTFMT_ETHNT_2, Hardware address is 00e0-fc12-3456
Last physical up time   : 2024-01-15 08:30:00
Last physical down time : 2024-01-14 22:15:00
Speed : 1000,    Loopback: NONE
Duplex: FULL,    Negotiation: ENABLE
Mdi   : AUTO
Last 300 seconds input rate 1024 bits/sec, 2 packets/sec
Last 300 seconds output rate 2048 bits/sec, 3 packets/sec

Input:  1000 packets, 128000 bytes
  Unicast:                 900,  Multicast:                 50
  Broadcast:                50,  Jumbo:                      0
Output:  2000 packets, 256000 bytes
  Unicast:                1800,  Multicast:                100
  Broadcast:               100,  Jumbo:                      0`, normalized)
	}

	return interfaceSummary
}

func displayCurrentConfiguration(s *vrp.Session, args map[string]string) string {
	var b strings.Builder
	b.WriteString("!Software Version V800R021C00SPC100\n")
	b.WriteString("!Last configuration was updated at 2024-01-15 08:00:00 UTC\n")
	b.WriteString("!Last configuration was saved at 2024-01-14 22:00:00 UTC\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "sysname %s\n", s.Hostname)
	b.WriteString(`#
interface GigabitEthernet0/0/1
 ip address 10.0.0.1 255.255.255.0
#
interface GigabitEthernet0/0/2
 ip address 10.0.1.1 255.255.255.0
#
interface LoopBack0
 ip address 1.1.1.1 255.255.255.255
#
interface Vlanif100
 ip address 192.168.100.1 255.255.255.0
#
ip route-static 0.0.0.0 0.0.0.0 10.0.0.254
#
return`)
	return b.String()
}

// The non-brief form always renders the brief table; the modeled device
// behaves this way and clients depend on it.
func displayIPInterface(s *vrp.Session, args map[string]string) string {
	return ipInterfaceBrief
}

func displayIPRoutingTable(s *vrp.Session, args map[string]string) string {
	return routingTable
}

func registerDisplayCommands(r *vrp.Registry) {
	r.Register(`^display\s+version$`, vrp.HandlerFunc(displayVersion))
	r.Register(`^display\s+device$`, vrp.HandlerFunc(displayDevice))
	r.Register(`^display\s+clock$`, vrp.HandlerFunc(displayClock))
	r.Register(`^display\s+interface(?:\s+(?P<name>\S+))?(?:\s+(?P<brief>brief))?$`, vrp.HandlerFunc(displayInterface))
	r.Register(`^display\s+current-configuration$`, vrp.HandlerFunc(displayCurrentConfiguration))
	r.Register(`^display\s+ip\s+interface(?:\s+(?P<brief>brief))?$`, vrp.HandlerFunc(displayIPInterface))
	r.Register(`^display\s+ip\s+routing-table$`, vrp.HandlerFunc(displayIPRoutingTable))
}
