package roothints

import (
	"net"

	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// defaultServers is the compiled-in fallback root server table used when no
// root hints file is configured; a configured file that fails to load makes
// New return an error instead.
// Addresses are the well-known, long-stable IANA root server addresses.
func defaultServers() []server {
	return []server{
		nsServer("a.root-servers.net.", "198.41.0.4", "2001:503:ba3e::2:30"),
		nsServer("b.root-servers.net.", "199.9.14.201", "2001:500:200::b"),
		nsServer("c.root-servers.net.", "192.33.4.12", "2001:500:2::c"),
		nsServer("d.root-servers.net.", "199.7.91.13", "2001:500:2d::d"),
		nsServer("e.root-servers.net.", "192.203.230.10", "2001:500:a8::e"),
		nsServer("f.root-servers.net.", "192.5.5.241", "2001:500:2f::f"),
		nsServer("g.root-servers.net.", "192.112.36.4", "2001:500:12::d0d"),
		nsServer("h.root-servers.net.", "198.97.190.53", "2001:500:1::53"),
		nsServer("i.root-servers.net.", "192.36.148.17", "2001:7fe::53"),
		nsServer("j.root-servers.net.", "192.58.128.30", "2001:503:c27::2:30"),
		nsServer("k.root-servers.net.", "193.0.14.129", "2001:7fd::1"),
		nsServer("l.root-servers.net.", "199.7.83.42", "2001:500:9f::42"),
		nsServer("m.root-servers.net.", "202.12.27.33", "2001:dc3::35"),
	}
}

func nsServer(name string, addrs ...string) server {
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil {
			ips = append(ips, ip)
		}
	}
	return server{name: domain.NewName(name), addrs: ips}
}
