package panchanga

var tithiNames = [30]string{
	"Shukla Pratipada", "Shukla Dvitiya", "Shukla Tritiya", "Shukla Chaturthi", "Shukla Panchami",
	"Shukla Shashthi", "Shukla Saptami", "Shukla Ashtami", "Shukla Navami", "Shukla Dashami",
	"Shukla Ekadashi", "Shukla Dwadashi", "Shukla Trayodashi", "Shukla Chaturdashi", "Purnima",
	"Krishna Pratipada", "Krishna Dvitiya", "Krishna Tritiya", "Krishna Chaturthi", "Krishna Panchami",
	"Krishna Shashthi", "Krishna Saptami", "Krishna Ashtami", "Krishna Navami", "Krishna Dashami",
	"Krishna Ekadashi", "Krishna Dwadashi", "Krishna Trayodashi", "Krishna Chaturdashi", "Amavasya",
}

var yogaNames = [27]string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda", "Sukarman",
	"Dhriti", "Shoola", "Ganda", "Vriddhi", "Dhruva", "Vyaghata", "Harshana",
	"Vajra", "Siddhi", "Vyatipata", "Variyana", "Parigha", "Shiva", "Siddha",
	"Sadhya", "Shubha", "Shukla", "Brahma", "Indra", "Vaidhriti",
}

// karanaNames repeats the seven movable karanas eight times, then the four
// fixed ones close the lunar month.
var karanaNames = func() [60]string {
	movable := [7]string{"Bava", "Balava", "Kaulava", "Taitila", "Garaja", "Vanija", "Vishti"}
	fixed := [4]string{"Shakuni", "Chatushpada", "Naga", "Kimstughna"}
	var out [60]string
	for i := 0; i < 56; i++ {
		out[i] = movable[i%7]
	}
	copy(out[56:], fixed[:])
	return out
}()
