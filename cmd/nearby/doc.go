// 12 Oct 2026

/*

Nearby reads a table of atoms and, for each pick, says which residues
have an atom within some radius of it. This is what the viewer does
when one clicks on an atom, without the viewer.

Usage:
	nearby [options] atomfile pick [pick ...]

A pick is either the serial number of an atom, or a point written as
x,y,z. The picks are handled one after the other as clicks in one
session, so the names of the highlights carry on counting.

The atom file has one atom per line
	serial x y z resnum chain [name]
A "." or "?" means the value is missing. Lines starting with # are
comments. The file may be gzipped.

Flags:
  -r radius
	in Å. Default 3.
  -w N
	use N goroutines to look through the atoms. Only worth it for
	very big structures.
  -l logfile
	write debugging output to logfile. "stdout" means standard output.
  -m distance|angle|dihedral
	do not select, but measure. The picks must be serial numbers and
	every 2, 3 or 4 of them give a measurement.

*/
package main
