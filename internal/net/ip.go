package net

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const LinkScheme = "sketchboard://"

// OutgoingIP finds the preferred local IP address for the host to share.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// no route out; fall back to the interfaces
		return firstIPv4().String()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}

// firstIPv4 is used on networks without internet access.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}

func ShareLink(ip string, port int) string {
	return LinkScheme + net.JoinHostPort(ip, strconv.Itoa(port))
}

// ParseShareLink turns sketchboard://ip:port into the host's board URL.
func ParseShareLink(link string) (string, error) {
	if !strings.HasPrefix(link, LinkScheme) {
		return "", fmt.Errorf("not a share link: %q", link)
	}
	address := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return "", fmt.Errorf("bad share link %q: %w", link, err)
	}
	if _, err := strconv.Atoi(port); err != nil || host == "" {
		return "", fmt.Errorf("bad share link %q", link)
	}
	return BoardURL(address), nil
}

func BoardURL(address string) string {
	return "ws://" + address + BoardPath
}
