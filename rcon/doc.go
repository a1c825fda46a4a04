/*
Package rcon is a client for the Minecraft remote console protocol.

A Session owns one TCP connection. It must authenticate exactly once before it
may execute commands, and it executes one command at a time:

	s, err := rcon.Dial(ctx, "mc.example.com", 25575, rcon.Config{})
	if err != nil {
		return err
	}
	defer s.Close()

	ok, err := s.Authenticate(password)
	if err != nil || !ok {
		return err
	}
	out, err := s.Execute("list")

The server may split one response over many packets without marking the last
one, so Execute delegates end-of-response detection to a Reassembler. The
default sends a packet of an unknown type right after the command; the server
answers it with a single short packet that can only arrive after every fragment
of the command's response. A server that answers the sentinel early truncates
the output; fragments after the sentinel reply are never read.
*/
package rcon
