// strucinfo prints what is in a structure file: the header, the
// chains, the sequences or a distance matrix. It is mostly a way to
// poke at the readers from the command line.
package main

func main() {
	execute()
}
